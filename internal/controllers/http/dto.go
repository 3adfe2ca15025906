package http

import (
	"time"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

// Wire field names follow the storefront page's contract.

type CartItemRequest struct {
	ProductID uint64 `json:"producto_id"`
	Quantity  int64  `json:"cantidad"`
}

type CreateOrderRequest struct {
	Items []CartItemRequest `json:"items"`
}

type CreateOrderResponse struct {
	OrderID uint64  `json:"ordenId"`
	Total   float64 `json:"total"`
}

type OrderLineResponse struct {
	SKU         string  `json:"sku"`
	ProductID   uint64  `json:"producto_id"`
	ProductName string  `json:"nombre_producto"`
	UnitPrice   float64 `json:"precio_unitario"`
	Quantity    int64   `json:"cantidad"`
	LineTotal   float64 `json:"total_renglon"`
}

type OrderResponse struct {
	ID       uint64              `json:"id"`
	Status   string              `json:"estado"`
	PlacedAt time.Time           `json:"realizada_en"`
	Total    float64             `json:"total_calculado"`
	Items    []OrderLineResponse `json:"items,omitempty"`
}

type ProductResponse struct {
	ID          uint64   `json:"id"`
	CategoryID  *uint64  `json:"categoria_id"`
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion"`
	SKU         string   `json:"sku"`
	Price       float64  `json:"precio"`
	DiscountPct *float64 `json:"descuento_aplicado_pct"`
	FinalPrice  float64  `json:"precio_final"`
	Stock       int64    `json:"existencias"`
}

type CategoryResponse struct {
	ID     uint64 `json:"id"`
	Name   string `json:"nombre"`
	Active bool   `json:"activo"`
}

type RegisterRequest struct {
	FirstName string  `json:"nombre" binding:"required"`
	LastName  string  `json:"apellido"`
	Email     string  `json:"correo" binding:"required"`
	Phone     *string `json:"telefono"`
	Password  string  `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"correo" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest fields left out of the body keep their stored value.
type UpdateProfileRequest struct {
	FirstName *string `json:"nombre"`
	LastName  *string `json:"apellido"`
	Phone     *string `json:"telefono"`
}

type ChangePasswordRequest struct {
	Current string `json:"actual" binding:"required"`
	Next    string `json:"nueva" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID        uint64  `json:"id"`
	FirstName string  `json:"nombre"`
	LastName  string  `json:"apellido"`
	Email     string  `json:"correo"`
	Phone     *string `json:"telefono"`
	Role      string  `json:"rol"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (r CreateOrderRequest) cartLines() []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, domain.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}

func toOrderResponse(o domain.Order, details bool) OrderResponse {
	resp := OrderResponse{
		ID:       o.ID,
		Status:   string(o.Status),
		PlacedAt: o.PlacedAt,
		Total:    o.Total.InexactFloat64(),
	}
	if !details {
		return resp
	}
	resp.Items = make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		resp.Items = append(resp.Items, OrderLineResponse{
			SKU:         l.SKU,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice.InexactFloat64(),
			Quantity:    l.Quantity,
			LineTotal:   l.LineTotal.InexactFloat64(),
		})
	}
	return resp
}

func toProductResponse(p domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
	}
	final := pricing.UnitPrice(p)
	resp.FinalPrice = final.InexactFloat64()
	if p.DiscountPct.Valid && final.LessThan(p.Price) {
		pct := p.DiscountPct.Decimal.InexactFloat64()
		resp.DiscountPct = &pct
	}
	return resp
}

func toUserResponse(c *domain.Customer) UserResponse {
	return UserResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Role:      c.Role,
	}
}
