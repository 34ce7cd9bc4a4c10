package verify_payment

import (
	"context"
	"errors"
	"fmt"

	transactionRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/transaction"
	"github.com/turfbook/TurfBookingService/internal/usecase/apply_payment_outcome"
)

// UseCase use case проверки подписи платежа и запуска реконсиляции
//
// Невалидная подпись - не ошибка запроса, а исход failed: бронирование
// освобождает слоты, попытка остаётся в журнале незахваченной
type UseCase struct {
	transactionRepo TransactionRepository
	verifier        SignatureVerifier
	reconciler      Reconciler
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	transactionRepo TransactionRepository,
	verifier SignatureVerifier,
	reconciler Reconciler,
	logger Logger,
) *UseCase {
	return &UseCase{
		transactionRepo: transactionRepo,
		verifier:        verifier,
		reconciler:      reconciler,
		logger:          logger,
	}
}

// Execute проверяет подпись уведомления и применяет исход к бронированию
// Ошибки реконсиляции (включая ErrPartialReconciliation) пробрасываются
// вызывающему как есть - шлюз повторит уведомление
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("VerifyPayment: order=%s, payment=%s", req.OrderID, req.PaymentID)

	if req.OrderID == "" {
		return nil, fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}
	if req.PaymentID == "" {
		return nil, fmt.Errorf("%w: paymentID is required", ErrInvalidInput)
	}

	rec, err := uc.transactionRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, transactionRepo.ErrRecordNotFound) {
			uc.logger.Warn("VerifyPayment: unknown order=%s", req.OrderID)
			return nil, ErrOrderNotFound
		}
		uc.logger.Error("VerifyPayment: failed to get order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to get transaction record: %v", ErrInternal, err)
	}

	valid := uc.verifier.VerifySignature(req.OrderID, req.PaymentID, req.Signature)

	outcome := apply_payment_outcome.OutcomeSuccess
	if !valid {
		uc.logger.Warn("VerifyPayment: invalid signature for order=%s, booking=%d, applying failed outcome",
			req.OrderID, rec.BookingID)
		outcome = apply_payment_outcome.OutcomeFailed
	}

	result, err := uc.reconciler.Execute(ctx, &apply_payment_outcome.Request{
		Outcome:       outcome,
		BookingID:     rec.BookingID,
		Amount:        rec.Amount,
		OrderID:       req.OrderID,
		PaymentID:     req.PaymentID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	return &Response{
		BookingID:      result.BookingID,
		OrderID:        result.OrderID,
		Status:         result.Status,
		PaymentStatus:  result.PaymentStatus,
		SignatureValid: valid,
		AlreadySettled: result.AlreadySettled,
	}, nil
}
