package slots

import (
	"context"

	"github.com/turfbook/TurfBookingService/internal/domain"
	"github.com/turfbook/TurfBookingService/internal/integrations/venueservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	CreateBulk(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error)
	GetByFacilityAndDate(ctx context.Context, facilityID int64, date string) ([]*domain.Slot, error)
}

// VenueServiceClient интерфейс клиента для VenueService
type VenueServiceClient interface {
	GetFacility(ctx context.Context, facilityID int64) (*venueservice.Facility, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
