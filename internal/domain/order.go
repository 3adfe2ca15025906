package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusCreated OrderStatus = "created"
)

// Order is immutable once written; Total is the sum of its lines at creation time.
type Order struct {
	ID         uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	CustomerID uint64          `json:"customerId" gorm:"not null;index"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'created'"`
	Total      decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	PlacedAt   time.Time       `json:"placedAt" gorm:"not null;index"`
	Lines      []OrderLine     `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderLine snapshots the product's sku, name and unit price at purchase time.
type OrderLine struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     uint64          `json:"orderId" gorm:"not null;index"`
	ProductID   uint64          `json:"productId" gorm:"not null;index"`
	SKU         string          `json:"sku" gorm:"size:64;not null"`
	ProductName string          `json:"productName" gorm:"size:160;not null"`
	UnitPrice   decimal.Decimal `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	Quantity    int64           `json:"quantity" gorm:"not null"`
	LineTotal   decimal.Decimal `json:"lineTotal" gorm:"type:decimal(12,2);not null"`
}

// CartLine is a client-held purchase intent. Prices are never taken from the client.
type CartLine struct {
	ProductID uint64
	Quantity  int64
}
