package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(databaseURL string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(DSN(databaseURL)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// DSN は DATABASE_URL があれば最優先で使い、無ければ POSTGRES_* から組み立てる。
func DSN(databaseURL string) string {
	if databaseURL != "" {
		return databaseURL
	}

	host := getenv("POSTGRES_HOST", "localhost")
	port := getenv("POSTGRES_PORT", "5432")
	user := getenv("POSTGRES_USER", "postgres")
	pass := getenv("POSTGRES_PASSWORD", "postgres")
	name := getenv("POSTGRES_DB", "app")
	ssl := getenv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
