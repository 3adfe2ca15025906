package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/domain"
	rabbit "storefront/internal/infra/rabbitmq"
	infraredis "storefront/internal/infra/redis"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const orderCreatedPattern = "order.created"

type OrderService struct {
	repo      repository.OrderRepository
	validator *OrderValidator
	publisher rabbit.PublisherInterface
	cache     infraredis.Cache
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewOrderService(r repository.OrderRepository, products repository.ProductRepository, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		repo:      r,
		validator: NewOrderValidator(products),
		publisher: pub,
		now:       time.Now,
	}
}

// SetCache enables caching of the customer order history read path.
func (u *OrderService) SetCache(c infraredis.Cache, ttl time.Duration) {
	u.cache = c
	u.cacheTTL = ttl
}

// CreateOrder validates the cart against the live catalog, prices it and
// writes the order atomically. Nothing is retried; on error no order exists
// and no stock has moved.
func (u *OrderService) CreateOrder(ctx context.Context, customer *domain.Customer, lines []domain.CartLine) (*domain.Order, error) {
	validated, err := u.validator.Validate(ctx, customer, lines)
	if err != nil {
		return nil, err
	}

	order := buildOrder(customer.ID, validated, u.now())
	if err := u.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	u.invalidateHistory(ctx, customer.ID)
	u.publishOrderCreatedEvent(ctx, order)

	return order, nil
}

func buildOrder(customerID uint64, validated []ValidatedLine, placedAt time.Time) *domain.Order {
	lines := make([]domain.OrderLine, 0, len(validated))
	totals := make([]decimal.Decimal, 0, len(validated))
	for _, v := range validated {
		lines = append(lines, domain.OrderLine{
			ProductID:   v.Product.ID,
			SKU:         v.Product.SKU,
			ProductName: v.Product.Name,
			UnitPrice:   v.UnitPrice,
			Quantity:    v.Quantity,
			LineTotal:   v.LineTotal,
		})
		totals = append(totals, v.LineTotal)
	}

	return &domain.Order{
		CustomerID: customerID,
		Status:     domain.StatusCreated,
		Total:      pricing.Total(totals),
		PlacedAt:   placedAt,
		Lines:      lines,
	}
}

// publishOrderCreatedEvent runs after commit, so a broker failure is logged
// and never turns a committed order into an error.
func (u *OrderService) publishOrderCreatedEvent(ctx context.Context, order *domain.Order) {
	evt := domain.NewOrderCreatedEvent(order)
	if err := u.publisher.Publish(ctx, orderCreatedPattern, evt); err != nil {
		log.Printf("Failed to publish %s for order %d: %v", orderCreatedPattern, order.ID, err)
	}
}

func (u *OrderService) GetOrder(ctx context.Context, customerID, id uint64) (*domain.Order, error) {
	o, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if o == nil || o.CustomerID != customerID {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// ListCustomerOrders returns the customer's orders newest first, with lines
// when details is set.
func (u *OrderService) ListCustomerOrders(ctx context.Context, customerID uint64, details bool) ([]domain.Order, error) {
	key := historyKey(customerID, details)
	if u.cache != nil {
		if b, err := u.cache.Get(ctx, key); err == nil {
			var cached []domain.Order
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		} else if !errors.Is(err, infraredis.ErrCacheMiss) {
			log.Printf("Order history cache read failed for customer %d: %v", customerID, err)
		}
	}

	orders, err := u.repo.FindByCustomer(ctx, customerID, details)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	if u.cache != nil {
		if data, err := json.Marshal(orders); err == nil {
			if err := u.cache.Set(ctx, key, data, u.cacheTTL); err != nil {
				log.Printf("Order history cache write failed for customer %d: %v", customerID, err)
			}
		}
	}
	return orders, nil
}

func (u *OrderService) invalidateHistory(ctx context.Context, customerID uint64) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Del(ctx, historyKey(customerID, true), historyKey(customerID, false)); err != nil {
		log.Printf("Order history cache invalidation failed for customer %d: %v", customerID, err)
	}
}

func historyKey(customerID uint64, details bool) string {
	return fmt.Sprintf("orders:customer:%d:details=%t", customerID, details)
}
