package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/turfbook/TurfBookingService/internal/domain"
	bookingRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/booking"
	"github.com/turfbook/TurfBookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo     BookingRepository
	slotRepo        SlotRepository
	transactionRepo TransactionRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	transactionRepo TransactionRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:     bookingRepo,
		slotRepo:        slotRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID с журналом платёжных попыток
// Проверяет права доступа - бронирование видят его владелец и партнёр площадки
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingDetailsResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != userID && booking.PartnerID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	// Восстанавливаем список слотов по обратным ссылкам
	slotIDs, err := s.slotRepo.GetIDsByBookingID(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to get slot ids for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - failed to get slot ids: %v", ErrInternal, err)
	}
	booking.SlotIDs = slotIDs

	records, err := s.transactionRepo.GetByBookingID(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to get transactions for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - failed to get transactions: %v", ErrInternal, err)
	}

	resp := &models.BookingDetailsResponse{
		BookingResponse: *models.FromDomainBooking(booking),
		Transactions:    make([]models.TransactionResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Transactions = append(resp.Transactions, models.FromDomainTransaction(rec))
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d (%d transactions)", id, len(records))
	return resp, nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetPartnerBookings получает бронирования партнёра с фильтрацией
// по площадке, периоду и статусу. Доступно только самому партнёру
func (s *Service) GetPartnerBookings(ctx context.Context, req *models.GetPartnerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetPartnerBookings: fetching bookings for partner=%d, user=%d", req.PartnerID, req.UserID)

	if req.UserID != req.PartnerID {
		s.logger.Warn("GetPartnerBookings: access denied for user=%d to partner=%d", req.UserID, req.PartnerID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetPartnerBookings: invalid filter for partner=%d: %v", req.PartnerID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: endDate before startDate", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByPartnerWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPartnerBookings: repository error for partner=%d: %v", req.PartnerID, err)
		return nil, fmt.Errorf("%w: GetPartnerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPartnerBookings: successfully fetched %d bookings for partner=%d", len(bookings), req.PartnerID)
	return models.FromDomainBookingList(bookings), nil
}
