package get_partner_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/turfbook/TurfBookingService/internal/api/handlers"
	"github.com/turfbook/TurfBookingService/internal/api/middleware"
	"github.com/turfbook/TurfBookingService/internal/service/bookings"
)

const (
	msgInvalidPartnerID = "некорректный ID партнёра"
	msgInvalidFilter    = "некорректные параметры фильтрации"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/partners/{partnerId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем partnerId из URL
	vars := mux.Vars(r)
	partnerIDStr := vars["partnerId"]

	partnerID, err := strconv.ParseInt(partnerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /partners/{partnerId}/bookings - Invalid partner ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPartnerID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /partners/{partnerId}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := parseQueryParams(r.URL.Query(), userID, partnerID)
	if err != nil {
		h.logger.Warn("GET /partners/{partnerId}/bookings - Invalid filter: partner_id=%d, error=%v",
			partnerID, err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.GetPartnerBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /partners/{partnerId}/bookings - Access denied: partner_id=%d, user_id=%d",
				partnerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /partners/{partnerId}/bookings - Invalid filter: partner_id=%d, error=%v",
				partnerID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /partners/{partnerId}/bookings - Failed to get bookings: partner_id=%d, error=%v",
				partnerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /partners/{partnerId}/bookings - Bookings retrieved successfully: partner_id=%d, count=%d",
		partnerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
