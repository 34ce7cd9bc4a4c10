package create_payment_order

import (
	"context"

	"github.com/turfbook/TurfBookingService/internal/domain"
	"github.com/turfbook/TurfBookingService/internal/integrations/paymentgateway"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// TransactionRepository интерфейс журнала платёжных попыток
type TransactionRepository interface {
	Create(ctx context.Context, rec *domain.TransactionRecord) (*domain.TransactionRecord, error)
}

// PaymentGatewayClient интерфейс клиента платёжного шлюза
type PaymentGatewayClient interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*paymentgateway.Order, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
