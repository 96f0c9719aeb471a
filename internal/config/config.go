package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultCartStorageKey = "@RocketShoes:cart"

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8080）
	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	SessionSecret string        // セッショントークン署名シークレット
	SessionTTL    time.Duration // セッショントークンの有効期限

	CartStorageKey string        // カートを保存するキー
	CartCacheSize  int           // メモリに置く待機中カートの上限
	CartIdleTTL    time.Duration // 使われていないカートをメモリに置く時間
	StorageDriver  string        // memory/postgres/redis/sqlite/s3

	DatabaseURL string // postgres（空ならPOSTGRES_*から組み立てる）
	RedisAddr   string // redis://... または host:port
	SQLitePath  string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string // MinIOなど
	S3PathStyle bool

	LookupBaseURL string        // 在庫/商品APIのベースURL
	LookupTimeout time.Duration // 在庫/商品APIのタイムアウト

	CatalogPort   string // 参照APIのポート（3333）
	CatalogDriver string // memory/postgres
	CatalogSeed   string // シードJSONのパス
}

// Loadは環境変数
func Load() (Config, error) {
	sessionTTL, err := durationOr("SESSION_TTL", 30*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	lookupTimeout, err := durationOr("LOOKUP_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cartIdleTTL, err := durationOr("CART_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cartCacheSize, err := intOr("CART_CACHE_SIZE", 10000)
	if err != nil {
		return Config{}, err
	}
	pathStyle, err := boolOr("S3_PATH_STYLE", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    sessionTTL,

		CartStorageKey: getenv("CART_STORAGE_KEY", DefaultCartStorageKey),
		CartCacheSize:  cartCacheSize,
		CartIdleTTL:    cartIdleTTL,
		StorageDriver:  strings.ToLower(getenv("STORAGE_DRIVER", "memory")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		SQLitePath:  getenv("SQLITE_PATH", "rocketcart.db"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getenv("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3PathStyle: pathStyle,

		LookupBaseURL: getenv("LOOKUP_BASE_URL", "http://localhost:3333"),
		LookupTimeout: lookupTimeout,

		CatalogPort:   getenv("CATALOG_PORT", "3333"),
		CatalogDriver: strings.ToLower(getenv("CATALOG_DRIVER", "memory")),
		CatalogSeed:   os.Getenv("CATALOG_SEED"),
	}

	//必須チェック
	if cfg.SessionSecret == "" {
		if cfg.GoEnv == "prod" {
			return Config{}, fmt.Errorf("SESSION_SECRET is required")
		}
		cfg.SessionSecret = "dev_secret_change_me"
	}
	if strings.TrimSpace(cfg.CartStorageKey) == "" {
		return Config{}, fmt.Errorf("CART_STORAGE_KEY must not be blank")
	}
	switch cfg.StorageDriver {
	case "memory", "postgres", "redis", "sqlite":
	case "s3":
		if cfg.S3Bucket == "" {
			return Config{}, fmt.Errorf("S3_BUCKET is required for s3 storage")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	switch cfg.CatalogDriver {
	case "memory", "postgres":
	default:
		return Config{}, fmt.Errorf("unknown CATALOG_DRIVER %q", cfg.CatalogDriver)
	}

	return cfg, nil
}

// ":8080" 形式のアドレス
func (c Config) Addr() string {
	return listenAddr(c.Port)
}

func (c Config) CatalogAddr() string {
	return listenAddr(c.CatalogPort)
}

func listenAddr(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func intOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be int: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}
