package apply_payment_outcome

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/turfbook/TurfBookingService/internal/domain"
	bookingRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/booking"
	transactionRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/transaction"
)

const (
	// maxTxAttempts количество попыток транзакционной фазы
	maxTxAttempts = 3

	// maxFallbackAttempts количество попыток fallback-фазы
	maxFallbackAttempts = 3

	// defaultRetryBackoff пауза между попытками
	defaultRetryBackoff = time.Second
)

// UseCase use case применения исхода платежа к бронированию
//
// Реконсиляция двухфазная. Фаза 1: до трёх транзакционных попыток,
// все три записи (бронирование, слоты, журнал транзакций) коммитятся
// атомарно. Фаза 2 (только если все транзакционные попытки упали):
// те же три обновления выполняются как независимые best-effort
// операции конкурентно, с повтором только упавшего подмножества
type UseCase struct {
	bookingRepo     BookingRepository
	slotRepo        SlotRepository
	transactionRepo TransactionRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger

	retryBackoff time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	transactionRepo TransactionRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		slotRepo:        slotRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		retryBackoff:    defaultRetryBackoff,
	}
}

// Execute применяет исход платежа: подтверждает или откатывает
// бронирование, слоты и запись журнала транзакций
// Повторное применение того же исхода - идемпотентный no-op
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApplyPaymentOutcome: booking=%d, order=%s, outcome=%s",
		req.BookingID, req.OrderID, req.Outcome)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ApplyPaymentOutcome: validation failed: %v", err)
		return nil, err
	}

	// Фаза 1: транзакционные попытки
	var (
		resp  *Response
		txErr error
	)
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		txErr = uc.txManager.Do(ctx, func(txCtx context.Context) error {
			r, err := uc.applyInTx(txCtx, req)
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		if txErr == nil {
			if resp.AlreadySettled {
				uc.logger.Info("ApplyPaymentOutcome: booking=%d already settled (%s/%s), no-op",
					req.BookingID, resp.Status, resp.PaymentStatus)
			} else {
				uc.logger.Info("ApplyPaymentOutcome: booking=%d settled as %s/%s",
					req.BookingID, resp.Status, resp.PaymentStatus)
			}
			return resp, nil
		}

		if errors.Is(txErr, errSettledRace) {
			// Конкурирующая реконсиляция закоммитилась между нашим чтением
			// и guarded-обновлением - исход уже применён, наш вызов no-op
			uc.logger.Info("ApplyPaymentOutcome: booking=%d settled concurrently, no-op", req.BookingID)
			return uc.settledResponse(req), nil
		}

		// Бизнес-ошибки не лечатся повтором
		if isBusinessError(txErr) {
			return nil, txErr
		}

		uc.logger.Warn("ApplyPaymentOutcome: transactional attempt %d/%d failed for booking=%d: %v",
			attempt, maxTxAttempts, req.BookingID, txErr)

		if attempt < maxTxAttempts {
			if err := uc.sleep(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}
	}

	// Фаза 2: все транзакционные попытки исчерпаны
	uc.logger.Error("ApplyPaymentOutcome: transactional phase exhausted for booking=%d, order=%s, entering fallback: %v",
		req.BookingID, req.OrderID, txErr)

	return uc.applyFallback(ctx, req)
}

// applyInTx применяет исход внутри транзакции
// Бронирование перечитывается под FOR UPDATE, поэтому конкурирующие
// реконсиляции одного бронирования сериализуются на строке
func (uc *UseCase) applyInTx(ctx context.Context, req *Request) (*Response, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	record, err := uc.transactionRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, transactionRepo.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: failed to get transaction record: %v", ErrInternal, err)
	}
	if record.BookingID != req.BookingID {
		return nil, ErrOrderMismatch
	}

	// Идемпотентная проверка: исход уже применён - записей не выполняем
	if resp, err := checkAlreadyApplied(booking, req); resp != nil || err != nil {
		return resp, err
	}

	now := uc.timeProvider.Now()

	switch req.Outcome {
	case OutcomeSuccess:
		if err := uc.bookingRepo.Confirm(ctx, req.BookingID, now, req.PaymentMethod, &req.PaymentID); err != nil {
			if errors.Is(err, bookingRepo.ErrAlreadySettled) {
				return nil, errSettledRace
			}
			return nil, fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
		}
		if err := uc.slotRepo.MarkBooked(ctx, req.BookingID); err != nil {
			return nil, fmt.Errorf("%w: failed to mark slots booked: %v", ErrInternal, err)
		}
		if err := uc.transactionRepo.Capture(ctx, req.OrderID, now, req.PaymentID, req.PaymentMethod); err != nil {
			if errors.Is(err, transactionRepo.ErrAlreadyCaptured) {
				return nil, errSettledRace
			}
			return nil, fmt.Errorf("%w: failed to capture transaction: %v", ErrInternal, err)
		}

	case OutcomeFailed:
		if err := uc.bookingRepo.MarkFailed(ctx, req.BookingID); err != nil {
			if errors.Is(err, bookingRepo.ErrAlreadySettled) {
				return nil, errSettledRace
			}
			return nil, fmt.Errorf("%w: failed to mark booking failed: %v", ErrInternal, err)
		}
		if err := uc.slotRepo.Release(ctx, req.BookingID); err != nil {
			return nil, fmt.Errorf("%w: failed to release slots: %v", ErrInternal, err)
		}
		if err := uc.transactionRepo.MarkFailed(ctx, req.OrderID, uc.paymentIDPtr(req)); err != nil {
			if errors.Is(err, transactionRepo.ErrAlreadyCaptured) {
				return nil, errSettledRace
			}
			return nil, fmt.Errorf("%w: failed to mark transaction failed: %v", ErrInternal, err)
		}

	case OutcomeRefunded:
		if err := uc.bookingRepo.MarkRefunded(ctx, req.BookingID); err != nil {
			if errors.Is(err, bookingRepo.ErrNotRefundable) {
				return nil, errSettledRace
			}
			return nil, fmt.Errorf("%w: failed to mark booking refunded: %v", ErrInternal, err)
		}
		if err := uc.slotRepo.Release(ctx, req.BookingID); err != nil {
			return nil, fmt.Errorf("%w: failed to release slots: %v", ErrInternal, err)
		}
		if err := uc.transactionRepo.MarkRefunded(ctx, req.OrderID); err != nil {
			if errors.Is(err, transactionRepo.ErrNotRefundable) {
				return nil, errSettledRace
			}
			return nil, fmt.Errorf("%w: failed to mark transaction refunded: %v", ErrInternal, err)
		}
	}

	status, paymentStatus := finalState(req.Outcome)
	return &Response{
		BookingID:     req.BookingID,
		OrderID:       req.OrderID,
		Status:        string(status),
		PaymentStatus: string(paymentStatus),
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.OrderID == "" {
		return fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}

	switch req.Outcome {
	case OutcomeSuccess:
		if req.PaymentID == "" {
			return fmt.Errorf("%w: paymentID is required for success outcome", ErrInvalidInput)
		}
	case OutcomeFailed, OutcomeRefunded:
	default:
		return fmt.Errorf("%w: unknown outcome %q", ErrInvalidInput, req.Outcome)
	}

	return nil
}

// checkAlreadyApplied идемпотентная проверка по текущему состоянию
// бронирования: уже применённый исход даёт ответ AlreadySettled, возврат
// по неоплаченному бронированию - ErrOutcomeConflict. (nil, nil) означает,
// что исход ещё предстоит применить
func checkAlreadyApplied(booking *domain.Booking, req *Request) (*Response, error) {
	switch req.Outcome {
	case OutcomeSuccess, OutcomeFailed:
		if booking.IsSettled() {
			return alreadySettledResponse(booking, req.OrderID), nil
		}
	case OutcomeRefunded:
		if booking.PaymentStatus == domain.PaymentRefunded {
			return alreadySettledResponse(booking, req.OrderID), nil
		}
		if !booking.IsPaid() {
			return nil, fmt.Errorf("%w: refund for booking in %s/%s",
				ErrOutcomeConflict, booking.Status, booking.PaymentStatus)
		}
	}
	return nil, nil
}

// alreadySettledResponse ответ no-op по фактическому состоянию бронирования
func alreadySettledResponse(booking *domain.Booking, orderID string) *Response {
	return &Response{
		BookingID:      booking.ID,
		OrderID:        orderID,
		Status:         string(booking.Status),
		PaymentStatus:  string(booking.PaymentStatus),
		AlreadySettled: true,
	}
}

// isBusinessError проверяет, что ошибка не лечится повторной попыткой
func isBusinessError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrOrderMismatch) ||
		errors.Is(err, ErrOutcomeConflict)
}

// finalState итоговая пара статусов для исхода
func finalState(outcome Outcome) (domain.BookingStatus, domain.PaymentStatus) {
	switch outcome {
	case OutcomeSuccess:
		return domain.StatusConfirmed, domain.PaymentPaid
	case OutcomeFailed:
		return domain.StatusFailed, domain.PaymentFailed
	default:
		return domain.StatusRefunded, domain.PaymentRefunded
	}
}

// settledResponse ответ для случая, когда исход применила конкурирующая реконсиляция
func (uc *UseCase) settledResponse(req *Request) *Response {
	status, paymentStatus := finalState(req.Outcome)
	return &Response{
		BookingID:      req.BookingID,
		OrderID:        req.OrderID,
		Status:         string(status),
		PaymentStatus:  string(paymentStatus),
		AlreadySettled: true,
	}
}

// paymentIDPtr возвращает указатель на paymentID или nil, если он пуст
func (uc *UseCase) paymentIDPtr(req *Request) *string {
	if req.PaymentID == "" {
		return nil
	}
	return &req.PaymentID
}

// sleep пауза между попытками с учётом отмены контекста
func (uc *UseCase) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(uc.retryBackoff):
		return nil
	}
}
