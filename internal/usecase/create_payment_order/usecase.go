package create_payment_order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/turfbook/TurfBookingService/internal/domain"
	bookingRepo "github.com/turfbook/TurfBookingService/internal/infra/storage/booking"
	"github.com/turfbook/TurfBookingService/internal/integrations/paymentgateway"
)

// minorUnitsPerMajor множитель перевода суммы в минорные единицы шлюза
const minorUnitsPerMajor = 100

// UseCase use case создания платёжного заказа у шлюза
//
// Запись в transaction_history выполняется после успешного ответа шлюза:
// order_id известен только из ответа, а заказ без локальной записи
// безвреден - он не пройдёт реконсиляцию
type UseCase struct {
	bookingRepo     BookingRepository
	transactionRepo TransactionRepository
	gateway         PaymentGatewayClient
	currency        string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	transactionRepo TransactionRepository,
	gateway PaymentGatewayClient,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		transactionRepo: transactionRepo,
		gateway:         gateway,
		currency:        currency,
		logger:          logger,
	}
}

// Execute создает заказ на стороне шлюза и фиксирует попытку в журнале
// Повторный вызов для того же бронирования создаёт новый заказ -
// предыдущие остаются в журнале незахваченными
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePaymentOrder: user=%d, booking=%d", req.UserID, req.BookingID)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CreatePaymentOrder: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.UserID != req.UserID {
		uc.logger.Warn("CreatePaymentOrder: user=%d is not the owner of booking=%d", req.UserID, req.BookingID)
		return nil, ErrPermissionDenied
	}

	if booking.Status != domain.StatusPending || booking.PaymentStatus != domain.PaymentPending {
		uc.logger.Warn("CreatePaymentOrder: booking=%d is %s/%s, not payable",
			req.BookingID, booking.Status, booking.PaymentStatus)
		return nil, ErrBookingNotPayable
	}

	amountMinor := int64(math.Round(booking.Amount * minorUnitsPerMajor))
	receipt := fmt.Sprintf("bkg-%d-%s", booking.ID, uuid.NewString())
	notes := map[string]string{
		"booking_id": strconv.FormatInt(booking.ID, 10),
	}

	order, err := uc.gateway.CreateOrder(ctx, amountMinor, uc.currency, receipt, notes)
	if err != nil {
		if errors.Is(err, paymentgateway.ErrOrderRejected) {
			uc.logger.Warn("CreatePaymentOrder: gateway rejected order for booking=%d: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: %v", ErrGatewayRejected, err)
		}
		uc.logger.Error("CreatePaymentOrder: gateway call failed for booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: gateway call failed: %v", ErrInternal, err)
	}

	rec := &domain.TransactionRecord{
		OrderID:   order.ID,
		BookingID: booking.ID,
		Amount:    booking.Amount,
		Currency:  uc.currency,
	}

	if _, err := uc.transactionRepo.Create(ctx, rec); err != nil {
		// Заказ у шлюза уже создан; без локальной записи он не пройдёт
		// проверку реконсиляции, поэтому просто возвращаем ошибку
		uc.logger.Error("CreatePaymentOrder: failed to record order=%s for booking=%d: %v",
			order.ID, req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to record transaction: %v", ErrInternal, err)
	}

	uc.logger.Info("CreatePaymentOrder: order=%s created for booking=%d (%d %s)",
		order.ID, booking.ID, amountMinor, uc.currency)

	return &Response{
		BookingID: booking.ID,
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		Receipt:   order.Receipt,
		Status:    order.Status,
	}, nil
}
