package mysql

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Create writes the order header, its lines and the stock decrements in one
// transaction. A decrement that would take stock below zero aborts everything
// with domain.ErrInsufficientStock; any other database failure is reported as
// domain.ErrPersistence.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	if len(order.Lines) == 0 {
		return domain.ErrEmptyOrder
	}
	for _, l := range order.Lines {
		if l.Quantity < 1 {
			return fmt.Errorf("%w: product %d has quantity %d", domain.ErrInvalidQuantity, l.ProductID, l.Quantity)
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if order.ID == 0 {
			return errors.New("failed to assign order ID")
		}

		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
		}
		if err := tx.Create(&order.Lines).Error; err != nil {
			return err
		}

		// Ascending product id so concurrent checkouts lock rows in the same order.
		idx := make([]int, len(order.Lines))
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool {
			return order.Lines[idx[a]].ProductID < order.Lines[idx[b]].ProductID
		})
		for _, i := range idx {
			l := order.Lines[i]
			if err := decrementStock(tx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		resetIDs(order)
		if errors.Is(err, domain.ErrInsufficientStock) {
			log.Printf("Order rejected at commit for customer %d: %v", order.CustomerID, err)
			return err
		}
		log.Printf("Database save error: %v", err)
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	log.Printf("Order saved successfully with ID: %d (%d lines, total %s)", order.ID, len(order.Lines), order.Total.StringFixed(2))
	return nil
}

func resetIDs(order *domain.Order) {
	order.ID = 0
	for i := range order.Lines {
		order.Lines[i].ID = 0
		order.Lines[i].OrderID = 0
	}
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Lines", orderLinesByID).First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByCustomer(ctx context.Context, customerID uint64, withLines bool) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("placed_at DESC, id DESC")
	if withLines {
		q = q.Preload("Lines", orderLinesByID)
	}

	out := []domain.Order{}
	if err := q.Find(&out).Error; err != nil {
		log.Printf("FindByCustomer error: %v", err)
		return nil, err
	}
	return out, nil
}

func orderLinesByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
