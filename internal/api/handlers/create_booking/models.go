package create_booking

import (
	"time"

	"github.com/turfbook/TurfBookingService/internal/domain"
	createBooking "github.com/turfbook/TurfBookingService/internal/usecase/create_booking"
	"github.com/turfbook/TurfBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	PartnerID     int64   `json:"partnerId"`
	VenueID       int64   `json:"venueId"`
	FacilityID    int64   `json:"facilityId"`
	ActivityID    int64   `json:"activityId"`
	SlotIDs       []int64 `json:"slotIds"`
	Amount        float64 `json:"amount"`
	BookingDate   string  `json:"bookingDate"` // "2025-10-15"
	StartTime     string  `json:"startTime"`   // "10:00"
	EndTime       string  `json:"endTime"`     // "11:30"
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
}

// SlotResponse HTTP модель захваченного слота
type SlotResponse struct {
	ID           int64   `json:"id"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	Amount       float64 `json:"amount"`
	Availability string  `json:"availability"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"userId"`
	PartnerID       int64          `json:"partnerId"`
	VenueID         int64          `json:"venueId"`
	FacilityID      int64          `json:"facilityId"`
	ActivityID      int64          `json:"activityId"`
	SlotIDs         []int64        `json:"slotIds"`
	Amount          float64        `json:"amount"`
	DurationMinutes int            `json:"durationMinutes"`
	NumberOfSlots   int            `json:"numberOfSlots"`
	BookingDate     string         `json:"bookingDate"`
	StartTime       string         `json:"startTime"`
	EndTime         string         `json:"endTime"`
	Status          string         `json:"status"`
	PaymentStatus   string         `json:"paymentStatus"`
	CustomerName    string         `json:"customerName"`
	CustomerPhone   string         `json:"customerPhone"`
	Slots           []SlotResponse `json:"slots"`
	CreatedAt       string         `json:"createdAt"`
	UpdatedAt       string         `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// userID приходит из контекста (middleware Auth), не из тела
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	startMinutes, err := startTime.Minutes()
	if err != nil {
		return nil, err
	}
	endMinutes, err := endTime.Minutes()
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:        userID,
		PartnerID:     r.PartnerID,
		VenueID:       r.VenueID,
		FacilityID:    r.FacilityID,
		ActivityID:    r.ActivityID,
		SlotIDs:       r.SlotIDs,
		Amount:        r.Amount,
		Date:          bookingDate,
		StartMinutes:  startMinutes,
		EndMinutes:    endMinutes,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		PartnerID:       resp.PartnerID,
		VenueID:         resp.VenueID,
		FacilityID:      resp.FacilityID,
		ActivityID:      resp.ActivityID,
		SlotIDs:         resp.SlotIDs,
		Amount:          resp.Amount,
		DurationMinutes: resp.DurationMinutes,
		NumberOfSlots:   resp.NumberOfSlots,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		Status:          resp.Status,
		PaymentStatus:   resp.PaymentStatus,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}

	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			ID:           s.ID,
			StartTime:    s.StartTime.String(),
			EndTime:      s.EndTime.String(),
			Amount:       s.Amount,
			Availability: s.Availability,
		})
	}

	return out
}
