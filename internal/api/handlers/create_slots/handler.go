package create_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/turfbook/TurfBookingService/internal/api/handlers"
	"github.com/turfbook/TurfBookingService/internal/api/middleware"
	"github.com/turfbook/TurfBookingService/internal/service/slots"
)

const (
	msgInvalidFacilityID  = "некорректный ID площадки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgFacilityNotFound   = "площадка не найдена"
	msgFacilityInactive   = "площадка выключена"
	msgForbidden          = "доступ запрещен"
	msgDuplicateSlot      = "слот на это время уже существует"
	msgInvalidSlots       = "некорректные параметры слотов"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/facilities/{facilityId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	facilityIDStr := vars["facilityId"]

	facilityID, err := strconv.ParseInt(facilityIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /facilities/{facilityId}/slots - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /facilities/{facilityId}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /facilities/{facilityId}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateSlots(r.Context(), req.ToServiceRequest(userID, facilityID))
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrFacilityNotFound):
			h.logger.Warn("POST /facilities/{facilityId}/slots - Facility not found: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, slots.ErrFacilityInactive):
			h.logger.Warn("POST /facilities/{facilityId}/slots - Facility inactive: facility_id=%d", facilityID)
			handlers.RespondError(w, http.StatusConflict, msgFacilityInactive)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("POST /facilities/{facilityId}/slots - Access denied: facility_id=%d, user_id=%d",
				facilityID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrDuplicateSlot):
			h.logger.Warn("POST /facilities/{facilityId}/slots - Duplicate slot: facility_id=%d, date=%s",
				facilityID, req.Date)
			handlers.RespondConflict(w, msgDuplicateSlot)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /facilities/{facilityId}/slots - Invalid input: facility_id=%d, error=%v",
				facilityID, err)
			handlers.RespondBadRequest(w, msgInvalidSlots)

		default:
			h.logger.Error("POST /facilities/{facilityId}/slots - Failed to create slots: facility_id=%d, error=%v",
				facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /facilities/{facilityId}/slots - Slots created successfully: facility_id=%d, count=%d",
		facilityID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusCreated, result.Slots)
}
