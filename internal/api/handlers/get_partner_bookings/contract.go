package get_partner_bookings

import (
	"context"

	"github.com/turfbook/TurfBookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetPartnerBookings(ctx context.Context, req *models.GetPartnerBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
