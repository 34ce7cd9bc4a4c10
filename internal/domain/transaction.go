package domain

import "time"

// TransactionRecord represents one payment attempt at the gateway,
// keyed by the gateway order id
//
// Invariant: Captured=true => the corresponding booking is paid.
// The record is updated exactly once per terminal payment outcome;
// the UNIQUE(order_id) constraint plus captured-state guards make
// duplicate gateway notifications no-ops.
type TransactionRecord struct {
	ID        int64
	OrderID   string
	BookingID int64
	Amount    float64
	Currency  string

	PaymentMethod    *string
	Captured         bool
	CapturedAt       *time.Time
	IsRefunded       bool
	GatewayPaymentID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
