package apply_payment_outcome

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/booking"
	transactionRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/transaction"
)

// recordKind логическая запись, обновляемая при реконсиляции
type recordKind string

const (
	recordBooking     recordKind = "booking"
	recordSlots       recordKind = "slots"
	recordTransaction recordKind = "transaction"
)

// recordResult результат применения одной записи в fallback-фазе
type recordResult struct {
	kind recordKind
	err  error
}

// applyFallback нетранзакционная фаза реконсиляции
//
// Три обновления выполняются конкурентно как независимые best-effort
// операции; на повтор уходит только упавшее подмножество. Каждая
// операция идемпотентна за счёт guarded-обновлений в репозиториях,
// поэтому повтор уже применённой записи безопасен
//
// Перед записями повторяется идемпотентная проверка транзакционной фазы:
// обновление слотов не guarded, и без неё запоздавшее уведомление failed
// вернуло бы в продажу слоты уже оплаченного бронирования
func (uc *UseCase) applyFallback(ctx context.Context, req *Request) (*Response, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	switch {
	case err == nil:
		if resp, err := checkAlreadyApplied(booking, req); resp != nil || err != nil {
			if resp != nil {
				uc.logger.Info("ApplyPaymentOutcome: booking=%d already settled (%s/%s), fallback no-op",
					req.BookingID, resp.Status, resp.PaymentStatus)
			}
			return resp, err
		}
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		return nil, ErrBookingNotFound
	default:
		// Best-effort: чтение упало - идём к guarded-обновлениям
		uc.logger.Warn("ApplyPaymentOutcome: fallback state check failed for booking=%d: %v", req.BookingID, err)
	}

	pending := []recordKind{recordBooking, recordSlots, recordTransaction}

	for attempt := 1; attempt <= maxFallbackAttempts; attempt++ {
		pending = uc.runFallbackAttempt(ctx, req, pending)
		if len(pending) == 0 {
			break
		}

		uc.logger.Warn("ApplyPaymentOutcome: fallback attempt %d/%d for booking=%d left records %v unreconciled",
			attempt, maxFallbackAttempts, req.BookingID, pending)

		if attempt < maxFallbackAttempts {
			if err := uc.sleep(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}
	}

	if len(pending) > 0 {
		// Авто-починки нет: рассинхронизация фиксируется в логах,
		// оставшиеся записи чинятся вручную или повторным уведомлением шлюза
		uc.logger.Error("ApplyPaymentOutcome: fallback exhausted for booking=%d, order=%s, records %v remain inconsistent",
			req.BookingID, req.OrderID, pending)
		return nil, fmt.Errorf("%w: booking=%d, order=%s, records=%v",
			ErrPartialReconciliation, req.BookingID, req.OrderID, pending)
	}

	uc.logger.Info("ApplyPaymentOutcome: booking=%d settled via fallback as %s", req.BookingID, req.Outcome)

	status, paymentStatus := finalState(req.Outcome)
	return &Response{
		BookingID:     req.BookingID,
		OrderID:       req.OrderID,
		Status:        string(status),
		PaymentStatus: string(paymentStatus),
		Fallback:      true,
	}, nil
}

// runFallbackAttempt одна конкурентная попытка по переданным записям
// Возвращает подмножество записей, которые применить не удалось
func (uc *UseCase) runFallbackAttempt(ctx context.Context, req *Request, kinds []recordKind) []recordKind {
	results := make(chan recordResult, len(kinds))

	for _, kind := range kinds {
		go func(k recordKind) {
			results <- recordResult{kind: k, err: uc.applyRecord(ctx, req, k)}
		}(kind)
	}

	var failed []recordKind
	for range kinds {
		res := <-results
		if res.err != nil {
			uc.logger.Warn("ApplyPaymentOutcome: fallback update of %s failed for booking=%d: %v",
				res.kind, req.BookingID, res.err)
			failed = append(failed, res.kind)
		}
	}

	return failed
}

// applyRecord применяет одну логическую запись вне транзакции
func (uc *UseCase) applyRecord(ctx context.Context, req *Request, kind recordKind) error {
	switch kind {
	case recordBooking:
		return uc.applyBookingRecord(ctx, req)
	case recordSlots:
		return uc.applySlotsRecord(ctx, req)
	case recordTransaction:
		return uc.applyTransactionRecord(ctx, req)
	}
	return nil
}

func (uc *UseCase) applyBookingRecord(ctx context.Context, req *Request) error {
	var err error
	switch req.Outcome {
	case OutcomeSuccess:
		err = uc.bookingRepo.Confirm(ctx, req.BookingID, uc.timeProvider.Now(), req.PaymentMethod, &req.PaymentID)
	case OutcomeFailed:
		err = uc.bookingRepo.MarkFailed(ctx, req.BookingID)
	case OutcomeRefunded:
		err = uc.bookingRepo.MarkRefunded(ctx, req.BookingID)
	}

	// Уже применено (в том числе частично закоммиченной попыткой) - no-op
	if errors.Is(err, bookingRepo.ErrAlreadySettled) || errors.Is(err, bookingRepo.ErrNotRefundable) {
		return nil
	}
	return err
}

func (uc *UseCase) applySlotsRecord(ctx context.Context, req *Request) error {
	if req.Outcome == OutcomeSuccess {
		return uc.slotRepo.MarkBooked(ctx, req.BookingID)
	}
	return uc.slotRepo.Release(ctx, req.BookingID)
}

func (uc *UseCase) applyTransactionRecord(ctx context.Context, req *Request) error {
	var err error
	switch req.Outcome {
	case OutcomeSuccess:
		err = uc.transactionRepo.Capture(ctx, req.OrderID, uc.timeProvider.Now(), req.PaymentID, req.PaymentMethod)
	case OutcomeFailed:
		err = uc.transactionRepo.MarkFailed(ctx, req.OrderID, uc.paymentIDPtr(req))
	case OutcomeRefunded:
		err = uc.transactionRepo.MarkRefunded(ctx, req.OrderID)
	}

	if errors.Is(err, transactionRepo.ErrAlreadyCaptured) || errors.Is(err, transactionRepo.ErrNotRefundable) {
		return nil
	}
	return err
}
