package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/turfbook/TurfBookingService/internal/domain"
	bookingRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/booking"
)

// UseCase use case отмены бронирования
//
// Отмена и освобождение слотов коммитятся одной транзакцией; слоты
// возвращаются в available с очисткой booking_id - время снова
// продаётся другим пользователям
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет бронирование
// Пользователь отменяет своё бронирование, партнёр - любое бронирование
// своих площадок. Денежный возврат инициируется на стороне шлюза и
// приходит отдельным исходом refunded
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%d", req.BookingID, req.ActorID)

	if req.ActorID <= 0 {
		return nil, fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d chars", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var resp *Response

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// Перечитываем бронирование под блокировкой (FOR UPDATE):
		// конкурирующая реконсиляция того же бронирования сериализуется
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.UserID != req.ActorID && booking.PartnerID != req.ActorID {
			uc.logger.Warn("CancelBooking: actor=%d has no access to booking=%d", req.ActorID, req.BookingID)
			return ErrPermissionDenied
		}

		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking=%d is %s, cannot cancel", req.BookingID, booking.Status)
			return ErrNotCancellable
		}

		now := uc.timeProvider.Now()

		if err := uc.bookingRepo.Cancel(txCtx, req.BookingID, now, req.Reason); err != nil {
			if errors.Is(err, bookingRepo.ErrNotCancellable) {
				return ErrNotCancellable
			}
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		if err := uc.slotRepo.ReleaseAndClear(txCtx, req.BookingID); err != nil {
			uc.logger.Error("CancelBooking: failed to release slots of booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to release slots: %v", ErrInternal, err)
		}

		resp = &Response{
			BookingID:      booking.ID,
			Status:         string(domain.StatusCancelled),
			PaymentStatus:  string(booking.PaymentStatus),
			CancelledAt:    &now,
			ReleasedSlots:  booking.NumberOfSlots,
			RefundRequired: booking.IsPaid(),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking=%d cancelled, %d slots released (refund required: %t)",
		resp.BookingID, resp.ReleasedSlots, resp.RefundRequired)

	return resp, nil
}
