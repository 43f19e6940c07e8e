package domain

import "time"

// Metadata keys attached to every checkout session.
const (
	MetadataOrderNumber   = "orderNumber"
	MetadataCustomerName  = "customerName"
	MetadataCustomerEmail = "customerEmail"
)

// CheckoutSession is the provider-owned record of a hosted checkout. Status
// carries the payment status (paid, unpaid, no_payment_required) and
// SessionStatus the lifecycle state (open, complete, expired).
type CheckoutSession struct {
	ID            string
	Status        string
	SessionStatus string
	CustomerEmail string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
	URL           string
	ExpiresAt     time.Time
}
