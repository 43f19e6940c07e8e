package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/promostore/storefront/internal/domain"
)

// Reconciliation compares the order's declared total with the totals implied
// by its components and by the built line items, all in minor units.
type Reconciliation struct {
	DeclaredTotal  int64
	ComputedTotal  int64
	LineItemsTotal int64
}

// Balanced reports whether all three totals agree.
func (r Reconciliation) Balanced() bool {
	return r.DeclaredTotal == r.ComputedTotal && r.ComputedTotal == r.LineItemsTotal
}

// Reconcile reports on the order's amounts. It never rejects an order.
func Reconcile(order domain.OrderData, lines []domain.LineItem) Reconciliation {
	rec := Reconciliation{
		DeclaredTotal: ToMinorUnits(order.Total),
		ComputedTotal: ToMinorUnits(order.Subtotal) + positiveMinor(order.Shipping) + positiveMinor(order.VAT),
	}
	for _, line := range lines {
		rec.LineItemsTotal += line.Amount()
	}
	return rec
}

// positiveMinor mirrors the line builder, which drops non-positive surcharges.
func positiveMinor(amount decimal.Decimal) int64 {
	if !amount.IsPositive() {
		return 0
	}
	return ToMinorUnits(amount)
}
