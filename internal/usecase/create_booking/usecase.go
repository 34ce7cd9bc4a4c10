package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/turfbook/TurfBookingService/internal/domain"
	slotRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/slot"
	venueClient "github.com/turfbook/TurfBookingService/internal/integrations/venueservice"
	"github.com/turfbook/TurfBookingService/pkg/types"
)

// UseCase use case для создания бронирования
//
// Ядро корректности: проверка доступности, вставка бронирования и захват
// слотов выполняются в одной сериализуемой транзакции - N слотов и одно
// бронирование коммитятся вместе или не коммитятся вовсе
type UseCase struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	venueClient  VenueServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	venueClient VenueServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		venueClient:  venueClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Возвращает бронирование в статусе pending и захваченные слоты;
// оплата на этом шаге не выполняется - только резервирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, facility=%d, date=%s, slots=%v",
		req.UserID, req.FacilityID, req.Date.Format(domain.DateFormat), req.SlotIDs)

	// 1. Валидация входных данных (без побочных эффектов)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем площадку через VenueService
	facility, err := uc.venueClient.GetFacility(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, venueClient.ErrFacilityNotFound) {
			uc.logger.Warn("CreateBooking: facility id=%d not found", req.FacilityID)
			return nil, ErrFacilityNotFound
		}
		uc.logger.Error("CreateBooking: failed to get facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get facility: %v", ErrInternal, err)
	}

	if facility.VenueID != req.VenueID || facility.PartnerID != req.PartnerID {
		uc.logger.Warn("CreateBooking: facility id=%d does not belong to venue=%d / partner=%d",
			req.FacilityID, req.VenueID, req.PartnerID)
		return nil, ErrFacilityMismatch
	}

	// 3. Производные поля интервала
	startTime, err := types.NewTimeStringFromMinutes(req.StartMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	endTime, err := types.NewTimeStringFromMinutes(req.EndMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	duration := req.EndMinutes - req.StartMinutes

	var (
		result      *domain.Booking
		lockedSlots []*domain.Slot
	)

	// 4. Резервирование в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Перечитываем слоты под блокировкой (FOR UPDATE)
		slots, err := uc.slotRepo.GetByIDs(txCtx, req.SlotIDs)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get slots: %v", err)
			return fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
		}

		// 4.2. Все слоты существуют, свободны и соответствуют запросу
		if err := validateSlotsMatchRequest(req, slots); err != nil {
			return err
		}

		// 4.3. Создаем бронирование pending/pending
		booking := &domain.Booking{
			UserID:          req.UserID,
			PartnerID:       req.PartnerID,
			VenueID:         req.VenueID,
			FacilityID:      req.FacilityID,
			ActivityID:      req.ActivityID,
			Amount:          req.Amount,
			DurationMinutes: duration,
			NumberOfSlots:   len(req.SlotIDs),
			BookingDate:     req.Date,
			StartTime:       startTime,
			EndTime:         endTime,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentPending,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.4. Захватываем слоты под созданное бронирование
		// Guarded update: обновляются только строки availability='available',
		// конкурентный захват даёт ErrSlotNotAvailable и откат всей транзакции
		if err := uc.slotRepo.Lock(txCtx, req.SlotIDs, created.ID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to lock slots: %v", err)
			return fmt.Errorf("%w: failed to lock slots: %v", ErrInternal, err)
		}

		created.SlotIDs = req.SlotIDs
		result = created

		for _, s := range slots {
			s.Availability = domain.SlotLocked
			s.BookingID = &created.ID
		}
		lockedSlots = slots

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d (%d slots locked)",
		result.ID, len(lockedSlots))

	return toResponse(result, lockedSlots), nil
}

// toResponse конвертирует domain модели в ответ use case
func toResponse(b *domain.Booking, slots []*domain.Slot) *Response {
	resp := &Response{
		ID:              b.ID,
		UserID:          b.UserID,
		PartnerID:       b.PartnerID,
		VenueID:         b.VenueID,
		FacilityID:      b.FacilityID,
		ActivityID:      b.ActivityID,
		SlotIDs:         b.SlotIDs,
		Amount:          b.Amount,
		DurationMinutes: b.DurationMinutes,
		NumberOfSlots:   b.NumberOfSlots,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Slots:           make([]SlotInfo, 0, len(slots)),
	}

	for _, s := range slots {
		resp.Slots = append(resp.Slots, SlotInfo{
			ID:           s.ID,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			Amount:       s.Amount,
			Availability: string(s.Availability),
		})
	}

	return resp
}
