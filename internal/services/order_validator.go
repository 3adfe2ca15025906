package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// ValidatedLine is a cart line priced against the live catalog and ready to persist.
type ValidatedLine struct {
	Product   domain.Product
	UnitPrice decimal.Decimal
	Quantity  int64
	LineTotal decimal.Decimal
}

// OrderValidator re-reads every requested product from the catalog. Client
// supplied prices never enter the computation; only ids and quantities do.
type OrderValidator struct {
	products repository.ProductRepository
}

func NewOrderValidator(products repository.ProductRepository) *OrderValidator {
	return &OrderValidator{products: products}
}

// Validate is all-or-nothing: the first failing line aborts the whole cart.
// Repeated product ids are merged, and the result is sorted by product id.
func (v *OrderValidator) Validate(ctx context.Context, customer *domain.Customer, lines []domain.CartLine) ([]ValidatedLine, error) {
	if customer == nil {
		return nil, domain.ErrUnauthorized
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	qty := make(map[uint64]int64, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %d has quantity %d", domain.ErrInvalidQuantity, l.ProductID, l.Quantity)
		}
		if l.ProductID == 0 {
			return nil, fmt.Errorf("%w: product 0", domain.ErrProductNotFound)
		}
		if l.Quantity > math.MaxInt64-qty[l.ProductID] {
			return nil, fmt.Errorf("%w: product %d quantity out of range", domain.ErrInvalidQuantity, l.ProductID)
		}
		qty[l.ProductID] += l.Quantity
	}

	ids := make([]uint64, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	found, err := v.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	byID := make(map[uint64]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	out := make([]ValidatedLine, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !p.Active {
			return nil, fmt.Errorf("%w: product %d", domain.ErrProductNotFound, id)
		}
		want := qty[id]
		if want > p.Stock {
			return nil, fmt.Errorf("%w: %s (sku %s) requested %d, available %d",
				domain.ErrInsufficientStock, p.Name, p.SKU, want, p.Stock)
		}

		unit := pricing.UnitPrice(p)
		out = append(out, ValidatedLine{
			Product:   p,
			UnitPrice: unit,
			Quantity:  want,
			LineTotal: pricing.LineTotal(unit, want),
		})
	}
	return out, nil
}
