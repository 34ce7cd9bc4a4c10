package models

import (
	"errors"
	"time"

	"github.com/turfbook/TurfBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetPartnerBookingsRequest запрос на получение бронирований партнёра
type GetPartnerBookingsRequest struct {
	UserID     int64      `json:"userId"`
	PartnerID  int64      `json:"partnerId"`
	FacilityID *int64     `json:"facilityId,omitempty"` // Фильтр по площадке (опционально)
	StartDate  *time.Time `json:"startDate,omitempty"`  // Начало периода (опционально)
	EndDate    *time.Time `json:"endDate,omitempty"`    // Конец периода (опционально)
	Status     *string    `json:"status,omitempty"`     // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetPartnerBookingsRequest) ToDomainFilter() (domain.PartnerBookingsFilter, error) {
	filter := domain.PartnerBookingsFilter{
		PartnerID:  r.PartnerID,
		FacilityID: r.FacilityID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	PartnerID       int64   `json:"partnerId"`
	VenueID         int64   `json:"venueId"`
	FacilityID      int64   `json:"facilityId"`
	ActivityID      int64   `json:"activityId"`
	SlotIDs         []int64 `json:"slotIds,omitempty"`
	Amount          float64 `json:"amount"`
	DurationMinutes int     `json:"durationMinutes"`
	NumberOfSlots   int     `json:"numberOfSlots"`
	BookingDate     string  `json:"bookingDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	EndTime         string  `json:"endTime"`     // "11:30"
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`

	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`

	PaymentMethod    *string `json:"paymentMethod,omitempty"`
	GatewayPaymentID *string `json:"gatewayPaymentId,omitempty"`

	ConfirmedAt        *string `json:"confirmedAt,omitempty"` // ISO 8601 format
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	CancellationReason *string `json:"cancellationReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransactionResponse запись журнала платёжных попыток бронирования
type TransactionResponse struct {
	OrderID          string  `json:"orderId"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Captured         bool    `json:"captured"`
	CapturedAt       *string `json:"capturedAt,omitempty"` // ISO 8601 format
	IsRefunded       bool    `json:"isRefunded"`
	PaymentMethod    *string `json:"paymentMethod,omitempty"`
	GatewayPaymentID *string `json:"gatewayPaymentId,omitempty"`
}

// BookingDetailsResponse бронирование с журналом платёжных попыток
type BookingDetailsResponse struct {
	BookingResponse
	Transactions []TransactionResponse `json:"transactions,omitempty"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		PartnerID:        b.PartnerID,
		VenueID:          b.VenueID,
		FacilityID:       b.FacilityID,
		ActivityID:       b.ActivityID,
		SlotIDs:          b.SlotIDs,
		Amount:           b.Amount,
		DurationMinutes:  b.DurationMinutes,
		NumberOfSlots:    b.NumberOfSlots,
		BookingDate:      b.BookingDate.Format(domain.DateFormat),
		StartTime:        b.StartTime.String(),
		EndTime:          b.EndTime.String(),
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		CustomerName:     b.CustomerName,
		CustomerPhone:    b.CustomerPhone,
		PaymentMethod:    b.PaymentMethod,
		GatewayPaymentID: b.GatewayPaymentID,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	resp.ConfirmedAt = formatTimePtr(b.ConfirmedAt)
	resp.CancelledAt = formatTimePtr(b.CancelledAt)
	resp.CancellationReason = b.CancellationReason

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// FromDomainTransaction конвертирует запись журнала в DTO
func FromDomainTransaction(rec *domain.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		OrderID:          rec.OrderID,
		Amount:           rec.Amount,
		Currency:         rec.Currency,
		Captured:         rec.Captured,
		CapturedAt:       formatTimePtr(rec.CapturedAt),
		IsRefunded:       rec.IsRefunded,
		PaymentMethod:    rec.PaymentMethod,
		GatewayPaymentID: rec.GatewayPaymentID,
	}
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled,
		domain.StatusFailed, domain.StatusRefunded:
		return domain.BookingStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}

// formatTimePtr форматирует опциональное время в ISO 8601
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
