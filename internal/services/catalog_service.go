package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/internal/domain"
	infraredis "storefront/internal/infra/redis"
	"storefront/internal/repository"

	"golang.org/x/sync/singleflight"
)

// CatalogService serves the storefront's read-only product and category
// listings. Checkout never reads through this cache.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      infraredis.Cache
	cacheTTL   time.Duration
	group      singleflight.Group
}

func NewCatalogService(p repository.ProductRepository, c repository.CategoryRepository) *CatalogService {
	return &CatalogService{products: p, categories: c}
}

func (s *CatalogService) SetCache(c infraredis.Cache, ttl time.Duration) {
	s.cache = c
	s.cacheTTL = ttl
}

func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	key := productsKey(filter)

	var out []domain.Product
	err := s.cached(ctx, key, &out, func() (any, error) {
		return s.products.ListActive(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if p == nil || !p.Active {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := s.cached(ctx, "categories:active", &out, func() (any, error) {
		return s.categories.ListActive(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// cached decodes the value under key into dst, filling it with load on a miss.
// Concurrent misses for the same key share a single load.
func (s *CatalogService) cached(ctx context.Context, key string, dst any, load func() (any, error)) error {
	if s.cache != nil {
		b, err := s.cache.Get(ctx, key)
		if err == nil && json.Unmarshal(b, dst) == nil {
			return nil
		}
		if err != nil && !errors.Is(err, infraredis.ErrCacheMiss) {
			log.Printf("Catalog cache read failed for %s: %v", key, err)
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
				log.Printf("Catalog cache write failed for %s: %v", key, err)
			}
		}
		return data, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return json.Unmarshal(v.([]byte), dst)
}

func productsKey(f repository.ProductFilter) string {
	cat := "all"
	if f.CategoryID != nil {
		cat = fmt.Sprintf("%d", *f.CategoryID)
	}
	return fmt.Sprintf("products:cat=%s:q=%s", cat, strings.ToLower(f.Query))
}
