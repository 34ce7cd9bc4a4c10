package bookings

import (
	"context"

	"github.com/turfbook/TurfBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByPartnerWithFilter(ctx context.Context, filter domain.PartnerBookingsFilter) ([]*domain.Booking, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetIDsByBookingID(ctx context.Context, bookingID int64) ([]int64, error)
}

// TransactionRepository интерфейс журнала платёжных попыток
type TransactionRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.TransactionRecord, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
