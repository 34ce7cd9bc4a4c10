package create_booking

import (
	"time"

	"github.com/turfbook/TurfBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64     // ID пользователя
	PartnerID  int64     // ID партнёра (владельца площадки)
	VenueID    int64     // ID спортивного комплекса
	FacilityID int64     // ID площадки (корт, поле)
	ActivityID int64     // ID вида активности
	SlotIDs    []int64   // Непустой список слотов
	Amount     float64   // Итоговая сумма бронирования
	Date       time.Time // Дата бронирования (без времени)

	// Интервал в минутах от полуночи; длительность кратна 30
	StartMinutes int
	EndMinutes   int

	// Данные клиента
	CustomerName  string
	CustomerPhone string
}

// Response модель ответа с созданным бронированием и захваченными слотами
type Response struct {
	ID              int64
	UserID          int64
	PartnerID       int64
	VenueID         int64
	FacilityID      int64
	ActivityID      int64
	SlotIDs         []int64
	Amount          float64
	DurationMinutes int
	NumberOfSlots   int
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          string
	PaymentStatus   string
	CustomerName    string
	CustomerPhone   string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Slots []SlotInfo
}

// SlotInfo слот в составе ответа
type SlotInfo struct {
	ID           int64
	StartTime    types.TimeString
	EndTime      types.TimeString
	Amount       float64
	Availability string
}
