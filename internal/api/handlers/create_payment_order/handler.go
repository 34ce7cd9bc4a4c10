package create_payment_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/turfbook/TurfBookingService/internal/api/handlers"
	"github.com/turfbook/TurfBookingService/internal/api/middleware"
	createPaymentOrder "github.com/turfbook/TurfBookingService/internal/usecase/create_payment_order"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "бронирование не найдено"
	msgForbidden         = "доступ запрещен"
	msgNotPayable        = "бронирование не подлежит оплате"
	msgGatewayRejected   = "платёжный шлюз отклонил заказ"
)

type Handler struct {
	useCase CreatePaymentOrderUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentOrderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment-order
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment-order - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment-order - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createPaymentOrder.Request{
		UserID:    userID,
		BookingID: bookingID,
	})
	if err != nil {
		switch {
		case errors.Is(err, createPaymentOrder.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment-order - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createPaymentOrder.ErrPermissionDenied):
			h.logger.Warn("POST /bookings/{id}/payment-order - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createPaymentOrder.ErrBookingNotPayable):
			h.logger.Warn("POST /bookings/{id}/payment-order - Not payable: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotPayable)

		case errors.Is(err, createPaymentOrder.ErrGatewayRejected):
			h.logger.Warn("POST /bookings/{id}/payment-order - Gateway rejected: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayRejected)

		case errors.Is(err, createPaymentOrder.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/payment-order - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("POST /bookings/{id}/payment-order - Failed to create order: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment-order - Order created: booking_id=%d, order_id=%s",
		bookingID, result.OrderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
