package repository

import (
	"context"

	"storefront/internal/domain"
)

// OrderRepository persists orders. Create is the order writer: header, lines and
// stock decrements commit together or not at all.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID uint64, withLines bool) ([]domain.Order, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
	ListActive(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}

type ProductFilter struct {
	CategoryID *uint64
	Query      string
}

type CategoryRepository interface {
	ListActive(ctx context.Context) ([]domain.Category, error)
}

// ProfileUpdate carries only the fields being changed; nil leaves a column
// untouched. An empty Phone clears it.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	FindByID(ctx context.Context, id uint64) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	UpdateProfile(ctx context.Context, id uint64, u ProfileUpdate) error
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
}
