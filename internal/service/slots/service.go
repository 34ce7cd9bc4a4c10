package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/turfbook/TurfBookingService/internal/domain"
	slotRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/slot"
	venueClient "github.com/turfbook/TurfBookingService/internal/integrations/venueservice"
	"github.com/turfbook/TurfBookingService/internal/service/slots/models"
	"github.com/turfbook/TurfBookingService/pkg/types"
)

// maxSlotsPerCreate лимит на одно массовое создание (один день расписания)
const maxSlotsPerCreate = 48

// Service сервис для работы с расписанием слотов
type Service struct {
	slotRepo    SlotRepository
	venueClient VenueServiceClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	venueClient VenueServiceClient,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:    slotRepo,
		venueClient: venueClient,
		logger:      logger,
	}
}

// GetFacilitySlots возвращает расписание площадки на дату
// Публичное чтение: доступно без проверки прав
func (s *Service) GetFacilitySlots(ctx context.Context, req *models.GetFacilitySlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("GetFacilitySlots: fetching slots for facility=%d, date=%s", req.FacilityID, req.Date)

	if req.FacilityID <= 0 {
		return nil, fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	slots, err := s.slotRepo.GetByFacilityAndDate(ctx, req.FacilityID, req.Date)
	if err != nil {
		s.logger.Error("GetFacilitySlots: repository error for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: GetFacilitySlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetFacilitySlots: successfully fetched %d slots for facility=%d", len(slots), req.FacilityID)
	return models.FromDomainSlotList(slots), nil
}

// CreateSlots массово создает слоты расписания площадки
// Доступно только партнёру площадки; занятое время даёт ErrDuplicateSlot
func (s *Service) CreateSlots(ctx context.Context, req *models.CreateSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("CreateSlots: creating %d slots for facility=%d, date=%s by user=%d",
		len(req.Slots), req.FacilityID, req.Date, req.UserID)

	date, err := s.validateCreateRequest(req)
	if err != nil {
		s.logger.Warn("CreateSlots: validation failed: %v", err)
		return nil, err
	}

	// Проверяем площадку и права партнёра
	facility, err := s.venueClient.GetFacility(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, venueClient.ErrFacilityNotFound) {
			s.logger.Warn("CreateSlots: facility id=%d not found", req.FacilityID)
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("CreateSlots: failed to get facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get facility: %v", ErrInternal, err)
	}

	if facility.PartnerID != req.UserID {
		s.logger.Warn("CreateSlots: user=%d is not the partner of facility=%d", req.UserID, req.FacilityID)
		return nil, ErrAccessDenied
	}
	if !facility.IsActive {
		s.logger.Warn("CreateSlots: facility id=%d is inactive", req.FacilityID)
		return nil, ErrFacilityInactive
	}

	slots := make([]*domain.Slot, 0, len(req.Slots))
	for _, in := range req.Slots {
		startTime, _ := types.NewTimeStringFromString(in.StartTime)
		endTime, _ := types.NewTimeStringFromString(in.EndTime)

		slots = append(slots, &domain.Slot{
			FacilityID:   req.FacilityID,
			Date:         date,
			StartTime:    startTime,
			EndTime:      endTime,
			Amount:       in.Amount,
			Availability: domain.SlotAvailable,
		})
	}

	created, err := s.slotRepo.CreateBulk(ctx, slots)
	if err != nil {
		if errors.Is(err, slotRepo.ErrDuplicateSlot) {
			s.logger.Warn("CreateSlots: duplicate slot for facility=%d, date=%s", req.FacilityID, req.Date)
			return nil, ErrDuplicateSlot
		}
		s.logger.Error("CreateSlots: repository error for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: CreateSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlots: successfully created %d slots for facility=%d", len(created), req.FacilityID)
	return models.FromDomainSlotList(created), nil
}

// validateCreateRequest валидирует запрос на создание слотов
// Каждый слот - ровно 30 минут, интервалы внутри запроса не пересекаются
func (s *Service) validateCreateRequest(req *models.CreateSlotsRequest) (time.Time, error) {
	if req.UserID <= 0 {
		return time.Time{}, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.FacilityID <= 0 {
		return time.Time{}, fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	if len(req.Slots) == 0 {
		return time.Time{}, fmt.Errorf("%w: slots must not be empty", ErrInvalidInput)
	}
	if len(req.Slots) > maxSlotsPerCreate {
		return time.Time{}, fmt.Errorf("%w: at most %d slots per request", ErrInvalidInput, maxSlotsPerCreate)
	}

	seen := make(map[int]struct{}, len(req.Slots))
	for i, in := range req.Slots {
		startTime, err := types.NewTimeStringFromString(in.StartTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: slot %d: invalid startTime: %v", ErrInvalidInput, i, err)
		}
		endTime, err := types.NewTimeStringFromString(in.EndTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: slot %d: invalid endTime: %v", ErrInvalidInput, i, err)
		}

		// Времена уже провалидированы парсингом, ошибки Minutes невозможны
		startMin, _ := startTime.Minutes()
		endMin, _ := endTime.Minutes()

		if endMin-startMin != domain.SlotDurationMinutes {
			return time.Time{}, fmt.Errorf("%w: slot %d: duration must be exactly %d minutes",
				ErrInvalidInput, i, domain.SlotDurationMinutes)
		}

		if in.Amount <= 0 {
			return time.Time{}, fmt.Errorf("%w: slot %d: amount must be positive", ErrInvalidInput, i)
		}

		if _, ok := seen[startMin]; ok {
			return time.Time{}, fmt.Errorf("%w: slot %d: duplicate startTime %s", ErrInvalidInput, i, in.StartTime)
		}
		seen[startMin] = struct{}{}
	}

	return date, nil
}
