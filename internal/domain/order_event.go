package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCreatedEvent struct {
	OrderID    uint64             `json:"orderId"`
	CustomerID uint64             `json:"customerId"`
	Total      decimal.Decimal    `json:"total"`
	Items      []OrderCreatedItem `json:"items"`
	PlacedAt   time.Time          `json:"placedAt"`
}

type OrderCreatedItem struct {
	ProductID uint64 `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	items := make([]OrderCreatedItem, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, OrderCreatedItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return OrderCreatedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Total:      o.Total,
		Items:      items,
		PlacedAt:   o.PlacedAt,
	}
}
