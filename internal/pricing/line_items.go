// Package pricing converts storefront order data into provider line items and
// checks that the declared order amounts agree.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/promostore/storefront/internal/domain"
)

const (
	ShippingLineName = "Shipping"
	VATLineName      = "VAT"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.RequireFromString("0.5")
)

// ToMinorUnits converts a major-unit amount to minor units, rounding half up
// on the exact decimal value: 3.805 becomes 381 and 0.005 becomes 1.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Add(half).Floor().IntPart()
}

// BuildLineItems returns one line per order item followed by a shipping line
// when shipping is positive and a VAT line when VAT is positive. Quantities and
// prices are passed through unvalidated.
func BuildLineItems(order domain.OrderData) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(order.Items)+2)
	for _, item := range order.Items {
		line := domain.LineItem{
			Kind:       domain.LineItemProduct,
			Name:       item.Name,
			UnitAmount: ToMinorUnits(item.Price),
			Quantity:   item.Quantity,
		}
		if item.Color != "" {
			line.Description = "Colour: " + item.Color
		}
		items = append(items, line)
	}

	if order.Shipping.IsPositive() {
		items = append(items, domain.LineItem{
			Kind:       domain.LineItemShipping,
			Name:       ShippingLineName,
			UnitAmount: ToMinorUnits(order.Shipping),
			Quantity:   1,
		})
	}
	if order.VAT.IsPositive() {
		items = append(items, domain.LineItem{
			Kind:       domain.LineItemVAT,
			Name:       VATLineName,
			UnitAmount: ToMinorUnits(order.VAT),
			Quantity:   1,
		})
	}
	return items
}
