// Package pricing computes what a customer pays for a product at checkout.
package pricing

import (
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// UnitPrice returns the discount-adjusted price when the product carries an
// active discount in (0, 100] that actually lowers the price, else the base price.
func UnitPrice(p domain.Product) decimal.Decimal {
	if !p.DiscountPct.Valid {
		return p.Price
	}
	pct := p.DiscountPct.Decimal
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		return p.Price
	}

	discounted := p.Price.Mul(one.Sub(pct.Div(hundred))).Round(2)
	if discounted.LessThan(p.Price) {
		return discounted
	}
	return p.Price
}

func LineTotal(unit decimal.Decimal, qty int64) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(qty))
}

// Total sums line totals.
func Total(lines []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l)
	}
	return sum
}
