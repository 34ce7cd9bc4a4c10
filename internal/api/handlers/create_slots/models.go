package create_slots

import (
	"github.com/turfbook/TurfBookingService/internal/service/slots/models"
)

// SlotInput один создаваемый слот
type SlotInput struct {
	StartTime string  `json:"startTime"` // "10:00"
	EndTime   string  `json:"endTime"`   // "10:30"
	Amount    float64 `json:"amount"`
}

// CreateSlotsRequest HTTP request model
type CreateSlotsRequest struct {
	Date  string      `json:"date"` // "2025-10-15"
	Slots []SlotInput `json:"slots"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSlotsRequest) ToServiceRequest(userID, facilityID int64) *models.CreateSlotsRequest {
	slots := make([]models.SlotInput, 0, len(r.Slots))
	for _, s := range r.Slots {
		slots = append(slots, models.SlotInput{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Amount:    s.Amount,
		})
	}

	return &models.CreateSlotsRequest{
		UserID:     userID,
		FacilityID: facilityID,
		Date:       r.Date,
		Slots:      slots,
	}
}
