// Package tax computes statutory ITBIS amounts for a set of sale
// lines. Rounding is half away from zero at two decimals, applied per
// line before summing; summing raw products and rounding once gives
// different cents for some inputs, so the per-line order is load-bearing.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"colmado/internal/domain"
)

// Line is one quantity/price pair to be taxed.
type Line struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Result holds the computed monetary breakdown of a transaction.
type Result struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	// LineTotals holds round2(quantity * unit price) per input line,
	// in input order.
	LineTotals []decimal.Decimal
}

// Calculator applies a fixed statutory rate. It is pure: no state
// beyond the rate, no side effects.
type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator creates a Calculator for the given statutory rate
// (e.g. 0.18 for the general ITBIS rate).
func NewCalculator(rate float64) *Calculator {
	return &Calculator{rate: decimal.NewFromFloat(rate)}
}

// Round2 rounds to two decimals, ties away from zero. Every monetary
// rounding in the engine goes through this.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Compute returns subtotal, tax and total for the given lines.
// Negative quantities or prices are rejected with ErrInvalidLineItem.
func (c *Calculator) Compute(lines []Line) (*Result, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no line items", domain.ErrInvalidLineItem)
	}

	subtotal := decimal.Zero
	lineTotals := make([]decimal.Decimal, 0, len(lines))
	for i, l := range lines {
		if l.Quantity < 0 {
			return nil, fmt.Errorf("%w: line %d has negative quantity", domain.ErrInvalidLineItem, i)
		}
		if l.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has negative unit price", domain.ErrInvalidLineItem, i)
		}
		lineTotal := Round2(decimal.NewFromInt(l.Quantity).Mul(l.UnitPrice))
		lineTotals = append(lineTotals, lineTotal)
		subtotal = subtotal.Add(lineTotal)
	}

	tax := Round2(subtotal.Mul(c.rate))
	total := Round2(subtotal.Add(tax))
	return &Result{Subtotal: subtotal, Tax: tax, Total: total, LineTotals: lineTotals}, nil
}

// TaxFor recomputes the statutory tax for an already-rounded taxable
// amount. The report builder uses it to cross-check stored values.
func (c *Calculator) TaxFor(subtotal decimal.Decimal) decimal.Decimal {
	return Round2(subtotal.Mul(c.rate))
}
