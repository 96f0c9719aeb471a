package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// カタログ上の商品（GET /products/{id} のレスポンス）。数量は持たない。
type CatalogProduct struct {
	ID        int64           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title     string          `gorm:"type:varchar(255);not null" json:"title"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Image     string          `gorm:"type:text" json:"image"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (CatalogProduct) TableName() string { return "products" }

// 在庫（GET /stock/{id} のレスポンス）。カート側では保持しない。
type Stock struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}

func (Stock) TableName() string { return "stock" }

// カートの明細。カタログの項目はそのまま運び、Amountだけカートが管理する。
type Product struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int64           `json:"amount"`
}

// カタログ商品から数量付きの明細を作る
func NewLineItem(p CatalogProduct, amount int64) Product {
	return Product{
		ID:     p.ID,
		Title:  p.Title,
		Price:  p.Price,
		Image:  p.Image,
		Amount: amount,
	}
}

// 明細の小計（price * amount）
func (p Product) Subtotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.Amount))
}
