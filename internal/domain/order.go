package domain

import "github.com/shopspring/decimal"

// Customer identifies the buyer of an order.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderItem is one product line as submitted by the storefront. Price is the
// unit price in major currency units.
type OrderItem struct {
	Name     string          `json:"name"`
	Color    string          `json:"color,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// OrderData is the client-composed order submitted for checkout. Amounts are
// major currency units. Total is expected to equal Subtotal+Shipping+VAT but
// that is never enforced here.
type OrderData struct {
	OrderNumber string          `json:"orderNumber"`
	Customer    Customer        `json:"customer"`
	Items       []OrderItem     `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Shipping    decimal.Decimal `json:"shipping"`
	VAT         decimal.Decimal `json:"vat"`
	Total       decimal.Decimal `json:"total"`
}

// LineItemKind distinguishes product lines from the surcharge lines appended after them.
type LineItemKind string

const (
	LineItemProduct  LineItemKind = "item"
	LineItemShipping LineItemKind = "shipping"
	LineItemVAT      LineItemKind = "vat"
)

// LineItem is a provider-ready line with its unit amount in minor units.
type LineItem struct {
	Kind        LineItemKind
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
}

// Amount returns UnitAmount × Quantity in minor units.
func (l LineItem) Amount() int64 {
	return l.UnitAmount * l.Quantity
}
