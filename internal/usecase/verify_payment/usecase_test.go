package verify_payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turfbook/TurfBookingService/internal/domain"
	transactionRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/transaction"
	"github.com/turfbook/TurfBookingService/internal/usecase/apply_payment_outcome"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTransactionRepo struct {
	record *domain.TransactionRecord
	err    error
}

func (f *fakeTransactionRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.TransactionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := *f.record
	return &r, nil
}

type fakeVerifier struct {
	valid bool
}

func (f *fakeVerifier) VerifySignature(orderID, paymentID, signature string) bool {
	return f.valid
}

type fakeReconciler struct {
	lastReq *apply_payment_outcome.Request
	resp    *apply_payment_outcome.Response
	err     error
}

func (f *fakeReconciler) Execute(ctx context.Context, req *apply_payment_outcome.Request) (*apply_payment_outcome.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testRecord() *domain.TransactionRecord {
	return &domain.TransactionRecord{
		ID:        11,
		BookingID: 42,
		OrderID:   "order_abc",
		Amount:    1200,
	}
}

func TestExecute_ValidSignature(t *testing.T) {
	rec := &fakeReconciler{resp: &apply_payment_outcome.Response{
		BookingID:     42,
		OrderID:       "order_abc",
		Status:        string(domain.StatusConfirmed),
		PaymentStatus: string(domain.PaymentPaid),
	}}
	uc := NewUseCase(&fakeTransactionRepo{record: testRecord()}, &fakeVerifier{valid: true}, rec, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		OrderID:   "order_abc",
		PaymentID: "pay_123",
		Signature: "deadbeef",
	})

	require.NoError(t, err)
	assert.True(t, resp.SignatureValid)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	require.NotNil(t, rec.lastReq)
	assert.Equal(t, apply_payment_outcome.OutcomeSuccess, rec.lastReq.Outcome)
	assert.Equal(t, int64(42), rec.lastReq.BookingID)
	assert.Equal(t, 1200.0, rec.lastReq.Amount)
	assert.Equal(t, "pay_123", rec.lastReq.PaymentID)
}

func TestExecute_InvalidSignatureAppliesFailedOutcome(t *testing.T) {
	rec := &fakeReconciler{resp: &apply_payment_outcome.Response{
		BookingID:     42,
		OrderID:       "order_abc",
		Status:        string(domain.StatusFailed),
		PaymentStatus: string(domain.PaymentFailed),
	}}
	uc := NewUseCase(&fakeTransactionRepo{record: testRecord()}, &fakeVerifier{valid: false}, rec, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		OrderID:   "order_abc",
		PaymentID: "pay_123",
		Signature: "tampered",
	})

	// Невалидная подпись - это исход failed, а не ошибка запроса
	require.NoError(t, err)
	assert.False(t, resp.SignatureValid)
	assert.Equal(t, string(domain.StatusFailed), resp.Status)
	assert.Equal(t, apply_payment_outcome.OutcomeFailed, rec.lastReq.Outcome)
}

func TestExecute_OrderNotFound(t *testing.T) {
	uc := NewUseCase(
		&fakeTransactionRepo{err: transactionRepo.ErrRecordNotFound},
		&fakeVerifier{valid: true},
		&fakeReconciler{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{OrderID: "order_unknown", PaymentID: "pay_123"})
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestExecute_ReconciliationErrorPassedThrough(t *testing.T) {
	rec := &fakeReconciler{err: apply_payment_outcome.ErrPartialReconciliation}
	uc := NewUseCase(&fakeTransactionRepo{record: testRecord()}, &fakeVerifier{valid: true}, rec, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{OrderID: "order_abc", PaymentID: "pay_123"})

	// Шлюз должен получить ошибку и повторить уведомление
	require.ErrorIs(t, err, apply_payment_outcome.ErrPartialReconciliation)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeTransactionRepo{record: testRecord()}, &fakeVerifier{valid: true}, &fakeReconciler{}, nopLogger{})

	t.Run("empty order id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{PaymentID: "pay_123"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty payment id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{OrderID: "order_abc"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
