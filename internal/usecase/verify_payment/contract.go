package verify_payment

import (
	"context"

	"github.com/turfbook/TurfBookingService/internal/domain"
	"github.com/turfbook/TurfBookingService/internal/usecase/apply_payment_outcome"
)

// TransactionRepository интерфейс журнала платёжных попыток
type TransactionRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.TransactionRecord, error)
}

// SignatureVerifier интерфейс проверки подписи уведомления шлюза
type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// Reconciler интерфейс движка реконсиляции
type Reconciler interface {
	Execute(ctx context.Context, req *apply_payment_outcome.Request) (*apply_payment_outcome.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
