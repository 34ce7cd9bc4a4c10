package cancel_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turfbook/TurfBookingService/internal/domain"
	bookingRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/booking"
	"github.com/turfbook/TurfBookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	booking *domain.Booking

	getErr      error
	cancelErr   error
	cancelCalls int
	lastReason  *string
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, cancelledAt time.Time, reason *string) error {
	f.cancelCalls++
	f.lastReason = reason
	return f.cancelErr
}

type fakeSlotRepo struct {
	releaseCalls int
	releaseErr   error
}

func (f *fakeSlotRepo) ReleaseAndClear(ctx context.Context, bookingID int64) error {
	f.releaseCalls++
	return f.releaseErr
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func activeBooking() *domain.Booking {
	return &domain.Booking{
		ID:            42,
		UserID:        7,
		PartnerID:     3,
		NumberOfSlots: 2,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
	}
}

func TestExecute_CancelByOwner(t *testing.T) {
	b := &fakeBookingRepo{booking: activeBooking()}
	s := &fakeSlotRepo{}
	tx := &fakeTxManager{}

	uc := NewUseCase(b, s, tx, nopLogger{})
	resp, err := uc.Execute(context.Background(), &Request{ActorID: 7, BookingID: 42})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, 2, resp.ReleasedSlots)
	assert.False(t, resp.RefundRequired)
	assert.NotNil(t, resp.CancelledAt)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 1, b.cancelCalls)
	assert.Equal(t, 1, s.releaseCalls)
}

func TestExecute_CancelByPartner(t *testing.T) {
	b := &fakeBookingRepo{booking: activeBooking()}
	uc := NewUseCase(b, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ActorID:   3, // партнёр площадки
		BookingID: 42,
		Reason:    ptr.Ptr("дождь, площадка закрыта"),
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, ptr.Ptr("дождь, площадка закрыта"), b.lastReason)
}

func TestExecute_PaidBookingRequiresRefund(t *testing.T) {
	booking := activeBooking()
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentPaid

	b := &fakeBookingRepo{booking: booking}
	uc := NewUseCase(b, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ActorID: 7, BookingID: 42})

	require.NoError(t, err)
	assert.True(t, resp.RefundRequired)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
}

func TestExecute_PermissionDenied(t *testing.T) {
	b := &fakeBookingRepo{booking: activeBooking()}
	s := &fakeSlotRepo{}
	uc := NewUseCase(b, s, &fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ActorID: 999, BookingID: 42})

	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 0, b.cancelCalls)
	assert.Equal(t, 0, s.releaseCalls)
}

func TestExecute_NotCancellable(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusCancelled,
		domain.StatusFailed,
		domain.StatusRefunded,
	} {
		t.Run(string(status), func(t *testing.T) {
			booking := activeBooking()
			booking.Status = status

			b := &fakeBookingRepo{booking: booking}
			uc := NewUseCase(b, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

			_, err := uc.Execute(context.Background(), &Request{ActorID: 7, BookingID: 42})
			require.ErrorIs(t, err, ErrNotCancellable)
		})
	}
}

func TestExecute_NotFound(t *testing.T) {
	b := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	uc := NewUseCase(b, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ActorID: 7, BookingID: 42})
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{booking: activeBooking()}, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	t.Run("zero actor id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BookingID: 42})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero booking id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{ActorID: 7})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("reason too long", func(t *testing.T) {
		reason := strings.Repeat("a", domain.MaxCancellationReasonLength+1)
		_, err := uc.Execute(context.Background(), &Request{ActorID: 7, BookingID: 42, Reason: &reason})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
