package mysql

import (
	"context"
	"errors"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	drv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const errDuplicateEntry = 1062

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, c *domain.Customer) error {
	c.Email = normalizeEmail(c.Email)
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		var myErr *drv.MySQLError
		if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
			return domain.ErrEmailTaken
		}
		log.Printf("Customer create error: %v", err)
		return err
	}
	return nil
}

func (r *customerRepo) FindByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("Customer FindByID error: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("Customer FindByEmail error: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) UpdateProfile(ctx context.Context, id uint64, u repository.ProfileUpdate) error {
	changes := map[string]any{}
	if u.FirstName != nil {
		changes["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		changes["last_name"] = *u.LastName
	}
	if u.Phone != nil {
		if *u.Phone == "" {
			changes["phone"] = nil
		} else {
			changes["phone"] = *u.Phone
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id).Updates(changes).Error
}

func (r *customerRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
