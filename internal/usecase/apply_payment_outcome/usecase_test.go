package apply_payment_outcome

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turfbook/TurfBookingService/internal/domain"
	bookingRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/booking"
	transactionRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/transaction"
	"github.com/turfbook/TurfBookingService/pkg/ptr"
)

// --- фейки ---

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	booking *domain.Booking

	confirmCalls      int
	markFailedCalls   int
	markRefundedCalls int

	getErr          error
	confirmErr      error
	markFailedErr   error
	markRefundedErr error
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookingRepo) Confirm(ctx context.Context, id int64, confirmedAt time.Time, paymentMethod, gatewayPaymentID *string) error {
	f.confirmCalls++
	return f.confirmErr
}

func (f *fakeBookingRepo) MarkFailed(ctx context.Context, id int64) error {
	f.markFailedCalls++
	return f.markFailedErr
}

func (f *fakeBookingRepo) MarkRefunded(ctx context.Context, id int64) error {
	f.markRefundedCalls++
	return f.markRefundedErr
}

type fakeSlotRepo struct {
	markBookedCalls int
	releaseCalls    int

	markBookedErr error
	releaseErr    error
}

func (f *fakeSlotRepo) MarkBooked(ctx context.Context, bookingID int64) error {
	f.markBookedCalls++
	return f.markBookedErr
}

func (f *fakeSlotRepo) Release(ctx context.Context, bookingID int64) error {
	f.releaseCalls++
	return f.releaseErr
}

type fakeTransactionRepo struct {
	record *domain.TransactionRecord

	captureCalls      int
	markFailedCalls   int
	markRefundedCalls int

	getErr          error
	captureErr      error
	markFailedErr   error
	markRefundedErr error
}

func (f *fakeTransactionRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.TransactionRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec := *f.record
	return &rec, nil
}

func (f *fakeTransactionRepo) Capture(ctx context.Context, orderID string, capturedAt time.Time, gatewayPaymentID string, paymentMethod *string) error {
	f.captureCalls++
	return f.captureErr
}

func (f *fakeTransactionRepo) MarkFailed(ctx context.Context, orderID string, gatewayPaymentID *string) error {
	f.markFailedCalls++
	return f.markFailedErr
}

func (f *fakeTransactionRepo) MarkRefunded(ctx context.Context, orderID string) error {
	f.markRefundedCalls++
	return f.markRefundedErr
}

// fakeTxManager выполняет fn напрямую; failFirst попыток завершаются ошибкой
type fakeTxManager struct {
	calls     int
	failFirst int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if f.calls <= f.failFirst {
		return errors.New("tx: connection reset")
	}
	return fn(ctx)
}

// --- конструкторы тестовых данных ---

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            42,
		UserID:        7,
		PartnerID:     3,
		NumberOfSlots: 2,
		Amount:        1200,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
	}
}

func pendingRecord() *domain.TransactionRecord {
	return &domain.TransactionRecord{
		ID:        1,
		OrderID:   "order_abc",
		BookingID: 42,
		Amount:    1200,
		Currency:  "INR",
	}
}

func newTestUseCase(b *fakeBookingRepo, s *fakeSlotRepo, tr *fakeTransactionRepo, tx *fakeTxManager) *UseCase {
	uc := NewUseCase(b, s, tr, tx, nopLogger{})
	uc.retryBackoff = time.Millisecond
	return uc
}

func successRequest() *Request {
	return &Request{
		Outcome:   OutcomeSuccess,
		BookingID: 42,
		Amount:    1200,
		OrderID:   "order_abc",
		PaymentID: "pay_xyz",
	}
}

// --- тесты ---

func TestExecute_Success(t *testing.T) {
	b := &fakeBookingRepo{booking: pendingBooking()}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{}

	uc := newTestUseCase(b, s, tr, tx)
	resp, err := uc.Execute(context.Background(), successRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.BookingID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.False(t, resp.AlreadySettled)
	assert.False(t, resp.Fallback)

	assert.Equal(t, 1, b.confirmCalls)
	assert.Equal(t, 1, s.markBookedCalls)
	assert.Equal(t, 1, tr.captureCalls)
	assert.Equal(t, 1, tx.calls)
}

func TestExecute_FailedOutcome(t *testing.T) {
	b := &fakeBookingRepo{booking: pendingBooking()}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{}

	uc := newTestUseCase(b, s, tr, tx)
	resp, err := uc.Execute(context.Background(), &Request{
		Outcome:   OutcomeFailed,
		BookingID: 42,
		OrderID:   "order_abc",
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusFailed), resp.Status)
	assert.Equal(t, string(domain.PaymentFailed), resp.PaymentStatus)

	assert.Equal(t, 1, b.markFailedCalls)
	assert.Equal(t, 1, s.releaseCalls)
	assert.Equal(t, 1, tr.markFailedCalls)
	assert.Equal(t, 0, b.confirmCalls)
}

func TestExecute_RefundedOutcome(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentPaid

	b := &fakeBookingRepo{booking: booking}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{}

	uc := newTestUseCase(b, s, tr, tx)
	resp, err := uc.Execute(context.Background(), &Request{
		Outcome:   OutcomeRefunded,
		BookingID: 42,
		OrderID:   "order_abc",
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRefunded), resp.Status)
	assert.Equal(t, string(domain.PaymentRefunded), resp.PaymentStatus)

	assert.Equal(t, 1, b.markRefundedCalls)
	assert.Equal(t, 1, s.releaseCalls)
	assert.Equal(t, 1, tr.markRefundedCalls)
}

func TestExecute_IdempotentNoOp(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentPaid

	b := &fakeBookingRepo{booking: booking}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{}

	uc := newTestUseCase(b, s, tr, tx)

	// Повторное уведомление об успехе по уже оплаченному бронированию
	resp, err := uc.Execute(context.Background(), successRequest())

	require.NoError(t, err)
	assert.True(t, resp.AlreadySettled)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	// Записей не выполнялось
	assert.Equal(t, 0, b.confirmCalls)
	assert.Equal(t, 0, s.markBookedCalls)
	assert.Equal(t, 0, tr.captureCalls)
}

func TestExecute_RefundOnUnpaidConflicts(t *testing.T) {
	b := &fakeBookingRepo{booking: pendingBooking()}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{}

	uc := newTestUseCase(b, s, tr, tx)
	_, err := uc.Execute(context.Background(), &Request{
		Outcome:   OutcomeRefunded,
		BookingID: 42,
		OrderID:   "order_abc",
	})

	require.ErrorIs(t, err, ErrOutcomeConflict)
	assert.Equal(t, 0, b.markRefundedCalls)
	// Бизнес-ошибка не ретраится
	assert.Equal(t, 1, tx.calls)
}

func TestExecute_OrderMismatch(t *testing.T) {
	record := pendingRecord()
	record.BookingID = 99

	b := &fakeBookingRepo{booking: pendingBooking()}
	tr := &fakeTransactionRepo{record: record}
	tx := &fakeTxManager{}

	uc := newTestUseCase(b, &fakeSlotRepo{}, tr, tx)
	_, err := uc.Execute(context.Background(), successRequest())

	require.ErrorIs(t, err, ErrOrderMismatch)
	assert.Equal(t, 1, tx.calls)
}

func TestExecute_NotFound(t *testing.T) {
	t.Run("booking", func(t *testing.T) {
		b := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
		uc := newTestUseCase(b, &fakeSlotRepo{}, &fakeTransactionRepo{record: pendingRecord()}, &fakeTxManager{})

		_, err := uc.Execute(context.Background(), successRequest())
		require.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("order", func(t *testing.T) {
		tr := &fakeTransactionRepo{getErr: transactionRepo.ErrRecordNotFound}
		uc := newTestUseCase(&fakeBookingRepo{booking: pendingBooking()}, &fakeSlotRepo{}, tr, &fakeTxManager{})

		_, err := uc.Execute(context.Background(), successRequest())
		require.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestExecute_ConcurrentSettlementRace(t *testing.T) {
	// Конкурирующая реконсиляция закоммитилась между чтением и записью:
	// guarded-обновление не находит строку в pending
	b := &fakeBookingRepo{booking: pendingBooking(), confirmErr: bookingRepo.ErrAlreadySettled}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{}

	uc := newTestUseCase(b, s, tr, tx)
	resp, err := uc.Execute(context.Background(), successRequest())

	require.NoError(t, err)
	assert.True(t, resp.AlreadySettled)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	// Фоллбэк не запускался, была ровно одна транзакционная попытка
	assert.Equal(t, 1, tx.calls)
}

func TestExecute_RetriesTransientTxErrors(t *testing.T) {
	b := &fakeBookingRepo{booking: pendingBooking()}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{failFirst: 2}

	uc := newTestUseCase(b, s, tr, tx)
	resp, err := uc.Execute(context.Background(), successRequest())

	require.NoError(t, err)
	assert.False(t, resp.Fallback)
	assert.Equal(t, 3, tx.calls)
	assert.Equal(t, 1, b.confirmCalls)
}

func TestExecute_FallbackAfterExhaustedTxAttempts(t *testing.T) {
	b := &fakeBookingRepo{booking: pendingBooking()}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{failFirst: maxTxAttempts}

	uc := newTestUseCase(b, s, tr, tx)
	resp, err := uc.Execute(context.Background(), successRequest())

	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	// Все три записи применены вне транзакции, по одному разу
	assert.Equal(t, maxTxAttempts, tx.calls)
	assert.Equal(t, 1, b.confirmCalls)
	assert.Equal(t, 1, s.markBookedCalls)
	assert.Equal(t, 1, tr.captureCalls)
}

func TestExecute_FallbackRetriesOnlyFailedRecords(t *testing.T) {
	b := &fakeBookingRepo{booking: pendingBooking()}
	s := &fakeSlotRepo{markBookedErr: errors.New("slots: timeout")}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{failFirst: maxTxAttempts}

	uc := newTestUseCase(b, s, tr, tx)
	_, err := uc.Execute(context.Background(), successRequest())

	require.ErrorIs(t, err, ErrPartialReconciliation)

	// Упавшая запись ретраится все попытки, успешные - не повторяются
	assert.Equal(t, maxFallbackAttempts, s.markBookedCalls)
	assert.Equal(t, 1, b.confirmCalls)
	assert.Equal(t, 1, tr.captureCalls)
}

func TestExecute_FallbackKeepsSettledBookingIntact(t *testing.T) {
	// Запоздавшее уведомление failed по уже оплаченному бронированию
	// при недоступной транзакционной фазе: fallback обязан перечитать
	// состояние и не трогать слоты подтверждённого бронирования
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentPaid

	b := &fakeBookingRepo{booking: booking, markFailedErr: bookingRepo.ErrAlreadySettled}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{failFirst: maxTxAttempts}

	uc := newTestUseCase(b, s, tr, tx)
	resp, err := uc.Execute(context.Background(), &Request{
		Outcome:   OutcomeFailed,
		BookingID: 42,
		OrderID:   "order_abc",
	})

	require.NoError(t, err)
	assert.True(t, resp.AlreadySettled)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)

	// Ни одной записи: слоты оплаченного бронирования остались booked
	assert.Equal(t, 0, s.releaseCalls)
	assert.Equal(t, 0, b.markFailedCalls)
	assert.Equal(t, 0, tr.markFailedCalls)
}

func TestExecute_FallbackRefundConflictOnUnpaid(t *testing.T) {
	b := &fakeBookingRepo{booking: pendingBooking()}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{failFirst: maxTxAttempts}

	uc := newTestUseCase(b, s, tr, tx)
	_, err := uc.Execute(context.Background(), &Request{
		Outcome:   OutcomeRefunded,
		BookingID: 42,
		OrderID:   "order_abc",
	})

	require.ErrorIs(t, err, ErrOutcomeConflict)
	assert.Equal(t, 0, b.markRefundedCalls)
	assert.Equal(t, 0, s.releaseCalls)
}

func TestExecute_FallbackProceedsWhenStateCheckFails(t *testing.T) {
	// Чтение состояния в fallback - best-effort: его ошибка не блокирует
	// guarded-обновления
	b := &fakeBookingRepo{booking: pendingBooking(), getErr: errors.New("db: connection reset")}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	tx := &fakeTxManager{failFirst: maxTxAttempts}

	uc := newTestUseCase(b, s, tr, tx)
	resp, err := uc.Execute(context.Background(), &Request{
		Outcome:   OutcomeFailed,
		BookingID: 42,
		OrderID:   "order_abc",
	})

	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, 1, b.markFailedCalls)
	assert.Equal(t, 1, s.releaseCalls)
	assert.Equal(t, 1, tr.markFailedCalls)
}

func TestExecute_FallbackTreatsAlreadyAppliedAsSuccess(t *testing.T) {
	// Частично закоммиченная попытка: транзакция журнала уже захвачена,
	// фоллбэк должен посчитать её применённой
	b := &fakeBookingRepo{booking: pendingBooking()}
	s := &fakeSlotRepo{}
	tr := &fakeTransactionRepo{record: pendingRecord(), captureErr: transactionRepo.ErrAlreadyCaptured}
	tx := &fakeTxManager{failFirst: maxTxAttempts}

	uc := newTestUseCase(b, s, tr, tx)
	resp, err := uc.Execute(context.Background(), successRequest())

	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, 1, tr.captureCalls)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{booking: pendingBooking()}, &fakeSlotRepo{},
		&fakeTransactionRepo{record: pendingRecord()}, &fakeTxManager{})

	tests := []struct {
		name string
		req  *Request
	}{
		{"zero booking id", &Request{Outcome: OutcomeSuccess, OrderID: "o", PaymentID: "p"}},
		{"empty order id", &Request{Outcome: OutcomeSuccess, BookingID: 1, PaymentID: "p"}},
		{"success without payment id", &Request{Outcome: OutcomeSuccess, BookingID: 1, OrderID: "o"}},
		{"unknown outcome", &Request{Outcome: "charged", BookingID: 1, OrderID: "o"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_FailedOutcomePassesPaymentID(t *testing.T) {
	b := &fakeBookingRepo{booking: pendingBooking()}
	tr := &fakeTransactionRepo{record: pendingRecord()}
	uc := newTestUseCase(b, &fakeSlotRepo{}, tr, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), &Request{
		Outcome:       OutcomeFailed,
		BookingID:     42,
		OrderID:       "order_abc",
		PaymentID:     "pay_bad",
		PaymentMethod: ptr.Ptr("upi"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tr.markFailedCalls)
}
