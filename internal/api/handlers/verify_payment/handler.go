package verify_payment

import (
	"errors"
	"net/http"

	"github.com/turfbook/TurfBookingService/internal/api/handlers"
	applyPaymentOutcome "github.com/turfbook/TurfBookingService/internal/usecase/apply_payment_outcome"
	verifyPayment "github.com/turfbook/TurfBookingService/internal/usecase/verify_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgOrderNotFound      = "заказ не найден"
	msgReconciliation     = "не удалось применить исход платежа, повторите уведомление"
)

type Handler struct {
	useCase VerifyPaymentUseCase
	logger  Logger
}

func NewHandler(useCase VerifyPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/verify
// Публичный маршрут: вызывается шлюзом, аутентификация - подписью в теле
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, verifyPayment.ErrOrderNotFound):
			h.logger.Warn("POST /payments/verify - Order not found: order_id=%s", req.OrderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, verifyPayment.ErrInvalidInput):
			h.logger.Warn("POST /payments/verify - Invalid input: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, applyPaymentOutcome.ErrPartialReconciliation):
			// 500 заставит шлюз повторить уведомление; повтор безопасен -
			// реконсиляция идемпотентна
			h.logger.Error("POST /payments/verify - Partial reconciliation: order_id=%s, error=%v",
				req.OrderID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgReconciliation)

		default:
			h.logger.Error("POST /payments/verify - Failed to verify payment: order_id=%s, error=%v",
				req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/verify - Payment processed: order_id=%s, booking_id=%d, valid=%t",
		req.OrderID, result.BookingID, result.SignatureValid)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
