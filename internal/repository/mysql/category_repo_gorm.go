package mysql

import (
	"context"
	"log"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&out).Error; err != nil {
		log.Printf("ListActive categories error: %v", err)
		return nil, err
	}
	return out, nil
}
