package apply_payment_outcome

import (
	"context"
	"time"

	"github.com/turfbook/TurfBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Confirm(ctx context.Context, id int64, confirmedAt time.Time, paymentMethod, gatewayPaymentID *string) error
	MarkFailed(ctx context.Context, id int64) error
	MarkRefunded(ctx context.Context, id int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	MarkBooked(ctx context.Context, bookingID int64) error
	Release(ctx context.Context, bookingID int64) error
}

// TransactionRepository интерфейс журнала платёжных попыток
type TransactionRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.TransactionRecord, error)
	Capture(ctx context.Context, orderID string, capturedAt time.Time, gatewayPaymentID string, paymentMethod *string) error
	MarkFailed(ctx context.Context, orderID string, gatewayPaymentID *string) error
	MarkRefunded(ctx context.Context, orderID string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
