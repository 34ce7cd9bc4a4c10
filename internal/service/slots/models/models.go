package models

import (
	"github.com/turfbook/TurfBookingService/internal/domain"
)

// Request модели

// SlotInput один создаваемый слот
type SlotInput struct {
	StartTime string  `json:"startTime"` // "10:00"
	EndTime   string  `json:"endTime"`   // "10:30"
	Amount    float64 `json:"amount"`
}

// CreateSlotsRequest запрос на массовое создание слотов
type CreateSlotsRequest struct {
	UserID     int64       `json:"userId"`
	FacilityID int64       `json:"facilityId"`
	Date       string      `json:"date"` // "2025-10-15"
	Slots      []SlotInput `json:"slots"`
}

// GetFacilitySlotsRequest запрос расписания площадки на дату
type GetFacilitySlotsRequest struct {
	FacilityID int64  `json:"facilityId"`
	Date       string `json:"date"` // "2025-10-15"
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID           int64   `json:"id"`
	FacilityID   int64   `json:"facilityId"`
	Date         string  `json:"date"`      // "2025-10-15"
	StartTime    string  `json:"startTime"` // "10:00"
	EndTime      string  `json:"endTime"`   // "10:30"
	Amount       float64 `json:"amount"`
	Availability string  `json:"availability"`
	BookingID    *int64  `json:"bookingId,omitempty"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:           s.ID,
		FacilityID:   s.FacilityID,
		Date:         s.Date.Format(domain.DateFormat),
		StartTime:    s.StartTime.String(),
		EndTime:      s.EndTime.String(),
		Amount:       s.Amount,
		Availability: string(s.Availability),
		BookingID:    s.BookingID,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, FromDomainSlot(s))
	}
	return resp
}
