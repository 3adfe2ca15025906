package mysql

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

// FindByID returns nil without error when the product does not exist.
func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByID error: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	out := []domain.Product{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&out).Error; err != nil {
		log.Printf("FindByIDs error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *productRepo) ListActive(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("name LIKE ? OR sku LIKE ? OR description LIKE ?", like, like, like)
	}

	out := []domain.Product{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		log.Printf("ListActive error: %v", err)
		return nil, err
	}
	return out, nil
}

// decrementStock only succeeds while enough stock remains, so two checkouts
// racing on the same product can never drive it negative.
func decrementStock(tx *gorm.DB, productID uint64, qty int64) error {
	if qty < 1 {
		return fmt.Errorf("%w: product %d has quantity %d", domain.ErrInvalidQuantity, productID, qty)
	}
	res := tx.Model(&domain.Product{}).
		Where("id = ? AND active = ? AND stock >= ?", productID, true, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: product %d", domain.ErrInsufficientStock, productID)
	}
	return nil
}
