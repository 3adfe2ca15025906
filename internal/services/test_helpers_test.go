package services

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

func CreateMockProduct(id uint64, name string, price string, discount string, stock int64) domain.Product {
	p := domain.Product{
		ID:     id,
		Name:   name,
		SKU:    "SKU-" + name,
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Active: true,
	}
	if discount != "" {
		p.DiscountPct = decimal.NewNullDecimal(decimal.RequireFromString(discount))
	}
	return p
}

func CreateMockCustomer(id uint64) *domain.Customer {
	return &domain.Customer{ID: id, FirstName: "Test", Email: "test@example.com", Role: domain.RoleCustomer}
}

const (
	TestCustomerID = uint64(3)
	TestProductID  = uint64(1)
)

// memCatalog and memOrders share one in-memory store whose Create applies
// the whole order or nothing, like the transactional writer.
type memState struct {
	mu         sync.Mutex
	products   map[uint64]domain.Product
	orders     []domain.Order
	nextID     uint64
	failCreate error
}

type memCatalog struct{ s *memState }
type memOrders struct{ s *memState }

func newMemState(products ...domain.Product) *memState {
	s := &memState{products: map[uint64]domain.Product{}, nextID: 1}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *memState) snapshot() (map[uint64]domain.Product, []domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := make(map[uint64]domain.Product, len(s.products))
	for k, v := range s.products {
		ps[k] = v
	}
	orders := append([]domain.Order(nil), s.orders...)
	return ps, orders
}

func (s *memState) stock(id uint64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (c memCatalog) FindByID(_ context.Context, id uint64) (*domain.Product, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	p, ok := c.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c memCatalog) FindByIDs(_ context.Context, ids []uint64) ([]domain.Product, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := []domain.Product{}
	for _, id := range ids {
		if p, ok := c.s.products[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c memCatalog) ListActive(_ context.Context, _ repository.ProductFilter) ([]domain.Product, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := []domain.Product{}
	for _, p := range c.s.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (o memOrders) Create(_ context.Context, order *domain.Order) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if o.s.failCreate != nil {
		return o.s.failCreate
	}
	for _, l := range order.Lines {
		p, ok := o.s.products[l.ProductID]
		if !ok || !p.Active || p.Stock < l.Quantity {
			return domain.ErrInsufficientStock
		}
	}
	for _, l := range order.Lines {
		p := o.s.products[l.ProductID]
		p.Stock -= l.Quantity
		o.s.products[l.ProductID] = p
	}
	order.ID = o.s.nextID
	o.s.nextID++
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
	}
	o.s.orders = append(o.s.orders, *order)
	return nil
}

func (o memOrders) FindByID(_ context.Context, id uint64) (*domain.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for _, ord := range o.s.orders {
		if ord.ID == id {
			ord := ord
			return &ord, nil
		}
	}
	return nil, nil
}

func (o memOrders) FindByCustomer(_ context.Context, customerID uint64, _ bool) ([]domain.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	out := []domain.Order{}
	for _, ord := range o.s.orders {
		if ord.CustomerID == customerID {
			out = append(out, ord)
		}
	}
	return out, nil
}
