package create_booking

import (
	"fmt"
	"math"
	"time"

	"github.com/turfbook/TurfBookingService/internal/domain"
)

const minutesPerDay = 24 * 60

// validateRequest валидирует входные данные запроса
// Выполняется до любых побочных эффектов
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.PartnerID <= 0 {
		return fmt.Errorf("%w: partnerID must be positive", ErrInvalidInput)
	}
	if req.VenueID <= 0 {
		return fmt.Errorf("%w: venueID must be positive", ErrInvalidInput)
	}
	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}
	if req.ActivityID <= 0 {
		return fmt.Errorf("%w: activityID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := validateSlotIDs(req.SlotIDs); err != nil {
		return err
	}

	if err := validateInterval(req.StartMinutes, req.EndMinutes, len(req.SlotIDs)); err != nil {
		return err
	}

	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	if req.CustomerName == "" || len(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName is required (max %d chars)", ErrInvalidInput, domain.MaxCustomerNameLength)
	}
	if req.CustomerPhone == "" || len(req.CustomerPhone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customerPhone is required (max %d chars)", ErrInvalidInput, domain.MaxCustomerPhoneLength)
	}

	return nil
}

// validateSlotIDs проверяет список слотов: непустой, без дубликатов, в пределах лимита
func validateSlotIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: slotIDs must not be empty", ErrInvalidInput)
	}
	if len(ids) > domain.MaxSlotsPerBooking {
		return fmt.Errorf("%w: at most %d slots per booking", ErrInvalidInput, domain.MaxSlotsPerBooking)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate slot id %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// validateInterval проверяет временной интервал запроса
// Длительность должна быть положительной, кратной 30 минутам и давать
// ровно numberOfSlots слотов: numberOfSlots = duration/30 = len(slotIDs)
func validateInterval(startMinutes, endMinutes, slotCount int) error {
	// Конец интервала строго внутри суток: слот с endTime "24:00"
	// непредставим в расписании, последний слот дня - 23:00-23:30
	if startMinutes < 0 || endMinutes >= minutesPerDay {
		return fmt.Errorf("%w: time interval out of day range, endTime must be before 24:00", ErrInvalidInput)
	}

	duration := endMinutes - startMinutes
	if duration <= 0 {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}
	if duration%domain.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: duration must be a multiple of %d minutes", ErrInvalidInput, domain.SlotDurationMinutes)
	}

	if duration/domain.SlotDurationMinutes != slotCount {
		return fmt.Errorf("%w: duration gives %d slots, got %d slot ids",
			ErrInvalidInput, duration/domain.SlotDurationMinutes, slotCount)
	}

	return nil
}

// validateSlotsMatchRequest проверяет захваченные под блокировкой слоты:
// все существуют, свободны, относятся к площадке и дате запроса
func validateSlotsMatchRequest(req *Request, slots []*domain.Slot) error {
	if len(slots) != len(req.SlotIDs) {
		// Часть запрошенных слотов не существует
		return ErrSlotNotAvailable
	}

	var total float64
	for _, s := range slots {
		if !s.IsAvailable() {
			return ErrSlotNotAvailable
		}
		if s.FacilityID != req.FacilityID || !isSameDay(s.Date, req.Date) {
			return ErrSlotMismatch
		}
		total += s.Amount
	}

	if math.Abs(total-req.Amount) > 0.01 {
		return fmt.Errorf("%w: slots total %.2f, request amount %.2f", ErrAmountMismatch, total, req.Amount)
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
