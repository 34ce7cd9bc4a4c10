package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turfbook/TurfBookingService/internal/domain"
	slotRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/slot"
	"github.com/turfbook/TurfBookingService/internal/integrations/venueservice"
	"github.com/turfbook/TurfBookingService/internal/service/slots/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSlotRepo struct {
	created []*domain.Slot
	slots   []*domain.Slot

	createErr error
	getErr    error
}

func (f *fakeSlotRepo) CreateBulk(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = slots
	out := make([]*domain.Slot, 0, len(slots))
	for i, s := range slots {
		created := *s
		created.ID = int64(i + 1)
		out = append(out, &created)
	}
	return out, nil
}

func (f *fakeSlotRepo) GetByFacilityAndDate(ctx context.Context, facilityID int64, date string) ([]*domain.Slot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slots, nil
}

type fakeVenueClient struct {
	facility *venueservice.Facility
	err      error
}

func (f *fakeVenueClient) GetFacility(ctx context.Context, facilityID int64) (*venueservice.Facility, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.facility, nil
}

func activeFacility() *venueservice.Facility {
	return &venueservice.Facility{
		ID:        5,
		VenueID:   2,
		PartnerID: 3,
		IsActive:  true,
	}
}

func createRequest() *models.CreateSlotsRequest {
	return &models.CreateSlotsRequest{
		UserID:     3,
		FacilityID: 5,
		Date:       "2025-10-15",
		Slots: []models.SlotInput{
			{StartTime: "10:00", EndTime: "10:30", Amount: 600},
			{StartTime: "10:30", EndTime: "11:00", Amount: 600},
		},
	}
}

func TestCreateSlots_Success(t *testing.T) {
	repo := &fakeSlotRepo{}
	svc := NewService(repo, &fakeVenueClient{facility: activeFacility()}, nopLogger{})

	resp, err := svc.CreateSlots(context.Background(), createRequest())

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "10:00", resp.Slots[0].StartTime)
	assert.Equal(t, "10:30", resp.Slots[0].EndTime)
	assert.Equal(t, string(domain.SlotAvailable), resp.Slots[0].Availability)

	require.Len(t, repo.created, 2)
	assert.Equal(t, int64(5), repo.created[0].FacilityID)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), repo.created[0].Date)
}

func TestCreateSlots_AccessChecks(t *testing.T) {
	t.Run("facility not found", func(t *testing.T) {
		svc := NewService(&fakeSlotRepo{}, &fakeVenueClient{err: venueservice.ErrFacilityNotFound}, nopLogger{})

		_, err := svc.CreateSlots(context.Background(), createRequest())
		require.ErrorIs(t, err, ErrFacilityNotFound)
	})

	t.Run("not the partner", func(t *testing.T) {
		facility := activeFacility()
		facility.PartnerID = 999
		svc := NewService(&fakeSlotRepo{}, &fakeVenueClient{facility: facility}, nopLogger{})

		_, err := svc.CreateSlots(context.Background(), createRequest())
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("facility inactive", func(t *testing.T) {
		facility := activeFacility()
		facility.IsActive = false
		svc := NewService(&fakeSlotRepo{}, &fakeVenueClient{facility: facility}, nopLogger{})

		_, err := svc.CreateSlots(context.Background(), createRequest())
		require.ErrorIs(t, err, ErrFacilityInactive)
	})
}

func TestCreateSlots_DuplicateSlot(t *testing.T) {
	repo := &fakeSlotRepo{createErr: slotRepo.ErrDuplicateSlot}
	svc := NewService(repo, &fakeVenueClient{facility: activeFacility()}, nopLogger{})

	_, err := svc.CreateSlots(context.Background(), createRequest())
	require.ErrorIs(t, err, ErrDuplicateSlot)
}

func TestCreateSlots_Validation(t *testing.T) {
	svc := NewService(&fakeSlotRepo{}, &fakeVenueClient{facility: activeFacility()}, nopLogger{})

	tests := []struct {
		name   string
		mutate func(*models.CreateSlotsRequest)
	}{
		{"zero user id", func(r *models.CreateSlotsRequest) { r.UserID = 0 }},
		{"zero facility id", func(r *models.CreateSlotsRequest) { r.FacilityID = 0 }},
		{"bad date", func(r *models.CreateSlotsRequest) { r.Date = "15.10.2025" }},
		{"no slots", func(r *models.CreateSlotsRequest) { r.Slots = nil }},
		{"too many slots", func(r *models.CreateSlotsRequest) {
			r.Slots = make([]models.SlotInput, maxSlotsPerCreate+1)
			for i := range r.Slots {
				minutes := i * domain.SlotDurationMinutes % (24 * 60)
				r.Slots[i] = models.SlotInput{
					StartTime: timeOfDay(minutes),
					EndTime:   timeOfDay(minutes + domain.SlotDurationMinutes),
					Amount:    600,
				}
			}
		}},
		{"bad start time", func(r *models.CreateSlotsRequest) { r.Slots[0].StartTime = "25:00" }},
		{"bad end time", func(r *models.CreateSlotsRequest) { r.Slots[0].EndTime = "abc" }},
		{"not 30 minutes", func(r *models.CreateSlotsRequest) { r.Slots[0].EndTime = "11:00" }},
		{"zero amount", func(r *models.CreateSlotsRequest) { r.Slots[0].Amount = 0 }},
		{"duplicate start time", func(r *models.CreateSlotsRequest) { r.Slots[1] = r.Slots[0] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest()
			tt.mutate(req)

			_, err := svc.CreateSlots(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetFacilitySlots(t *testing.T) {
	bookingID := int64(42)
	repo := &fakeSlotRepo{slots: []*domain.Slot{
		{
			ID:           1,
			FacilityID:   5,
			Date:         time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			StartTime:    "10:00",
			EndTime:      "10:30",
			Amount:       600,
			Availability: domain.SlotBooked,
			BookingID:    &bookingID,
		},
	}}
	svc := NewService(repo, &fakeVenueClient{facility: activeFacility()}, nopLogger{})

	t.Run("success", func(t *testing.T) {
		resp, err := svc.GetFacilitySlots(context.Background(), &models.GetFacilitySlotsRequest{
			FacilityID: 5,
			Date:       "2025-10-15",
		})

		require.NoError(t, err)
		require.Len(t, resp.Slots, 1)
		assert.Equal(t, "2025-10-15", resp.Slots[0].Date)
		assert.Equal(t, string(domain.SlotBooked), resp.Slots[0].Availability)
		require.NotNil(t, resp.Slots[0].BookingID)
		assert.Equal(t, bookingID, *resp.Slots[0].BookingID)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := svc.GetFacilitySlots(context.Background(), &models.GetFacilitySlotsRequest{
			FacilityID: 5,
			Date:       "tomorrow",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero facility id", func(t *testing.T) {
		_, err := svc.GetFacilitySlots(context.Background(), &models.GetFacilitySlotsRequest{Date: "2025-10-15"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

// timeOfDay форматирует минуты от полуночи в "HH:MM" для тестовых данных
func timeOfDay(minutes int) string {
	return time.Date(2025, 1, 1, 0, minutes, 0, 0, time.UTC).Format("15:04")
}
