package domain

import (
	"time"

	"github.com/turfbook/TurfBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusFailed    BookingStatus = "failed"
	StatusRefunded  BookingStatus = "refunded"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking aggregates one or more slots into a single purchase
//
// Invariant: NumberOfSlots = DurationMinutes/30 = len(SlotIDs);
// once settled, PaymentStatus=paid <=> Status=confirmed.
type Booking struct {
	ID         int64
	UserID     int64
	PartnerID  int64
	VenueID    int64
	FacilityID int64
	ActivityID int64

	// SlotIDs is derived from the slots table (booking_id back-references)
	// and is immutable after creation
	SlotIDs []int64

	Amount          float64
	DurationMinutes int
	NumberOfSlots   int
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString

	Status        BookingStatus
	PaymentStatus PaymentStatus

	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string

	// Customer details captured at booking time
	CustomerName  string
	CustomerPhone string

	// Payment details populated on capture
	PaymentMethod    *string
	GatewayPaymentID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsSettled returns true if a terminal payment outcome has been applied
func (b *Booking) IsSettled() bool {
	return b.PaymentStatus != PaymentPending
}

// IsPaid returns true if the payment has been captured
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid || b.Status == StatusConfirmed
}

// PartnerBookingsFilter фильтр для получения бронирований партнёра
type PartnerBookingsFilter struct {
	PartnerID  int64          // Обязательный параметр
	FacilityID *int64         // Фильтр по площадке (опционально)
	StartDate  *time.Time     // Начало периода (опционально)
	EndDate    *time.Time     // Конец периода (опционально)
	Status     *BookingStatus // Фильтр по статусу (опционально)
}
