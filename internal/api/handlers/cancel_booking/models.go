package cancel_booking

import (
	"time"

	cancelBooking "github.com/turfbook/TurfBookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID      int64   `json:"bookingId"`
	Status         string  `json:"status"`
	PaymentStatus  string  `json:"paymentStatus"`
	CancelledAt    *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	ReleasedSlots  int     `json:"releasedSlots"`
	RefundRequired bool    `json:"refundRequired"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	out := &CancelBookingResponse{
		BookingID:      resp.BookingID,
		Status:         resp.Status,
		PaymentStatus:  resp.PaymentStatus,
		ReleasedSlots:  resp.ReleasedSlots,
		RefundRequired: resp.RefundRequired,
	}
	if resp.CancelledAt != nil {
		formatted := resp.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &formatted
	}
	return out
}
