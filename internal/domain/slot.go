package domain

import (
	"time"

	"github.com/turfbook/TurfBookingService/pkg/types"
)

// SlotAvailability represents the availability state of a time slot
type SlotAvailability string

const (
	SlotAvailable SlotAvailability = "available"
	SlotLocked    SlotAvailability = "locked"
	SlotBooked    SlotAvailability = "booked"
)

// Slot represents a bookable half-hour interval at a facility
//
// Lifecycle: available -> locked (booking created) -> booked (payment captured)
// or back to available (payment failed / booking cancelled).
// Invariant: locked/booked slots carry a booking back-reference; for released
// slots availability alone governs bookability (BookingID may be kept for audit).
type Slot struct {
	ID           int64
	FacilityID   int64
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	Amount       float64
	Availability SlotAvailability
	BookingID    *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAvailable returns true if the slot can be claimed by a new booking
func (s *Slot) IsAvailable() bool {
	return s.Availability == SlotAvailable && s.BookingID == nil
}

// IsLocked returns true if the slot is held by a pending booking
func (s *Slot) IsLocked() bool {
	return s.Availability == SlotLocked
}

// IsBooked returns true if the slot belongs to a paid booking
func (s *Slot) IsBooked() bool {
	return s.Availability == SlotBooked
}
