package get_facility_slots

import (
	"context"

	"github.com/turfbook/TurfBookingService/internal/service/slots/models"
)

type SlotService interface {
	GetFacilitySlots(ctx context.Context, req *models.GetFacilitySlotsRequest) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
