package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint64              `json:"id" gorm:"primaryKey;autoIncrement"`
	CategoryID  *uint64             `json:"categoryId" gorm:"index"`
	Name        string              `json:"name" gorm:"size:160;not null"`
	SKU         string              `json:"sku" gorm:"size:64;not null;uniqueIndex"`
	Description string              `json:"description" gorm:"type:text"`
	Price       decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	DiscountPct decimal.NullDecimal `json:"discountPct" gorm:"type:decimal(5,2)"`
	Stock       int64               `json:"stock" gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	Active      bool                `json:"active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time           `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time           `json:"updatedAt" gorm:"autoUpdateTime"`
}

type Category struct {
	ID     uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name   string `json:"name" gorm:"size:120;not null"`
	Active bool   `json:"active" gorm:"not null;default:true"`
}

func (Category) TableName() string { return "categories" }
