package create_payment_order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turfbook/TurfBookingService/internal/domain"
	bookingRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/booking"
	"github.com/turfbook/TurfBookingService/internal/integrations/paymentgateway"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	booking *domain.Booking
	err     error
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	b := *f.booking
	return &b, nil
}

type fakeTransactionRepo struct {
	created   *domain.TransactionRecord
	createErr error
}

func (f *fakeTransactionRepo) Create(ctx context.Context, rec *domain.TransactionRecord) (*domain.TransactionRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *rec
	out.ID = 11
	f.created = &out
	return &out, nil
}

type fakeGateway struct {
	order *paymentgateway.Order
	err   error

	lastAmount   int64
	lastCurrency string
	lastReceipt  string
	lastNotes    map[string]string
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*paymentgateway.Order, error) {
	f.lastAmount = amount
	f.lastCurrency = currency
	f.lastReceipt = receipt
	f.lastNotes = notes
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func payableBooking() *domain.Booking {
	return &domain.Booking{
		ID:            42,
		UserID:        7,
		PartnerID:     3,
		Amount:        1200.50,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
	}
}

func gatewayOrder() *paymentgateway.Order {
	return &paymentgateway.Order{
		ID:       "order_abc",
		Amount:   120050,
		Currency: "INR",
		Receipt:  "bkg-42-receipt",
		Status:   "created",
	}
}

func TestExecute_Success(t *testing.T) {
	b := &fakeBookingRepo{booking: payableBooking()}
	tr := &fakeTransactionRepo{}
	g := &fakeGateway{order: gatewayOrder()}

	uc := NewUseCase(b, tr, g, "INR", nopLogger{})
	resp, err := uc.Execute(context.Background(), &Request{UserID: 7, BookingID: 42})

	require.NoError(t, err)
	assert.Equal(t, "order_abc", resp.OrderID)
	assert.Equal(t, int64(120050), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "created", resp.Status)

	// Сумма уходит шлюзу в минорных единицах
	assert.Equal(t, int64(120050), g.lastAmount)
	assert.Equal(t, "INR", g.lastCurrency)
	assert.True(t, strings.HasPrefix(g.lastReceipt, "bkg-42-"))
	assert.Equal(t, map[string]string{"booking_id": "42"}, g.lastNotes)

	// Попытка зафиксирована в журнале с order_id из ответа шлюза
	require.NotNil(t, tr.created)
	assert.Equal(t, "order_abc", tr.created.OrderID)
	assert.Equal(t, int64(42), tr.created.BookingID)
	assert.Equal(t, 1200.50, tr.created.Amount)
}

func TestExecute_PermissionDenied(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{booking: payableBooking()}, &fakeTransactionRepo{}, &fakeGateway{}, "INR", nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{UserID: 999, BookingID: 42})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestExecute_NotPayable(t *testing.T) {
	tests := []struct {
		name          string
		status        domain.BookingStatus
		paymentStatus domain.PaymentStatus
	}{
		{"already confirmed", domain.StatusConfirmed, domain.PaymentPaid},
		{"cancelled", domain.StatusCancelled, domain.PaymentPending},
		{"failed", domain.StatusFailed, domain.PaymentFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := payableBooking()
			booking.Status = tt.status
			booking.PaymentStatus = tt.paymentStatus

			g := &fakeGateway{order: gatewayOrder()}
			uc := NewUseCase(&fakeBookingRepo{booking: booking}, &fakeTransactionRepo{}, g, "INR", nopLogger{})

			_, err := uc.Execute(context.Background(), &Request{UserID: 7, BookingID: 42})
			require.ErrorIs(t, err, ErrBookingNotPayable)
			assert.Empty(t, g.lastReceipt) // до шлюза не дошли
		})
	}
}

func TestExecute_NotFound(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{err: bookingRepo.ErrBookingNotFound}, &fakeTransactionRepo{}, &fakeGateway{}, "INR", nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{UserID: 7, BookingID: 42})
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_GatewayRejected(t *testing.T) {
	g := &fakeGateway{err: paymentgateway.ErrOrderRejected}
	tr := &fakeTransactionRepo{}
	uc := NewUseCase(&fakeBookingRepo{booking: payableBooking()}, tr, g, "INR", nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{UserID: 7, BookingID: 42})

	require.ErrorIs(t, err, ErrGatewayRejected)
	assert.Nil(t, tr.created) // отклонённый заказ в журнал не пишем
}

func TestExecute_RecordFailureAfterGatewaySuccess(t *testing.T) {
	tr := &fakeTransactionRepo{createErr: errors.New("db: connection reset")}
	uc := NewUseCase(&fakeBookingRepo{booking: payableBooking()}, tr, &fakeGateway{order: gatewayOrder()}, "INR", nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{UserID: 7, BookingID: 42})
	require.ErrorIs(t, err, ErrInternal)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{booking: payableBooking()}, &fakeTransactionRepo{}, &fakeGateway{}, "INR", nopLogger{})

	t.Run("zero user id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BookingID: 42})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero booking id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{UserID: 7})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
