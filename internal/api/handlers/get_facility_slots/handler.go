package get_facility_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/turfbook/TurfBookingService/internal/api/handlers"
	"github.com/turfbook/TurfBookingService/internal/service/slots"
	"github.com/turfbook/TurfBookingService/internal/service/slots/models"
)

const (
	msgInvalidFacilityID = "некорректный ID площадки"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingDate       = "отсутствует параметр date"
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

// Handle GET /api/v1/facilities/{facilityId}/slots?date=YYYY-MM-DD
// Публичный маршрут: расписание видно без аутентификации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	facilityIDStr := vars["facilityId"]

	facilityID, err := strconv.ParseInt(facilityIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /facilities/{facilityId}/slots - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /facilities/{facilityId}/slots - Missing date: facility_id=%d", facilityID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.service.GetFacilitySlots(r.Context(), &models.GetFacilitySlotsRequest{
		FacilityID: facilityID,
		Date:       date,
	})
	if err != nil {
		if errors.Is(err, slots.ErrInvalidInput) {
			h.logger.Warn("GET /facilities/{facilityId}/slots - Invalid date: facility_id=%d, date=%s",
				facilityID, date)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		h.logger.Error("GET /facilities/{facilityId}/slots - Failed to get slots: facility_id=%d, error=%v",
			facilityID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /facilities/{facilityId}/slots - Slots retrieved successfully: facility_id=%d, count=%d",
		facilityID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result.Slots)
}
