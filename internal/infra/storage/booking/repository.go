package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/turfbook/TurfBookingService/internal/domain"
	"github.com/turfbook/TurfBookingService/pkg/dbmetrics"
	"github.com/turfbook/TurfBookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"partner_id",
	"venue_id",
	"facility_id",
	"activity_id",
	"amount",
	"duration_minutes",
	"number_of_slots",
	"slot_date",
	"start_time",
	"end_time",
	"booking_status",
	"payment_status",
	"confirmed_at",
	"cancelled_at",
	"cancellation_reason",
	"customer_name",
	"customer_phone",
	"payment_method",
	"gateway_payment_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование со статусами pending/pending
// Вызывается внутри транзакции создания бронирования вместе с захватом слотов:
// N слотов и бронирование коммитятся вместе или не коммитятся вовсе
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"partner_id",
			"venue_id",
			"facility_id",
			"activity_id",
			"amount",
			"duration_minutes",
			"number_of_slots",
			"slot_date",
			"start_time",
			"end_time",
			"booking_status",
			"payment_status",
			"customer_name",
			"customer_phone",
		).
		Values(
			b.UserID,
			b.PartnerID,
			b.VenueID,
			b.FacilityID,
			b.ActivityID,
			b.Amount,
			b.DurationMinutes,
			b.NumberOfSlots,
			b.BookingDate,
			b.StartTime,
			b.EndTime,
			b.Status,
			b.PaymentStatus,
			b.CustomerName,
			b.CustomerPhone,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции добавляет FOR UPDATE - сверка состояния при реконсиляции
// и отмене выполняется под блокировкой строки
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.UserID,
		&b.PartnerID,
		&b.VenueID,
		&b.FacilityID,
		&b.ActivityID,
		&b.Amount,
		&b.DurationMinutes,
		&b.NumberOfSlots,
		&b.BookingDate,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.PaymentStatus,
		&b.ConfirmedAt,
		&b.CancelledAt,
		&b.CancellationReason,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.PaymentMethod,
		&b.GatewayPaymentID,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("slot_date DESC, start_time DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByPartnerWithFilter получает бронирования партнёра с гибкой фильтрацией
// Поддерживает фильтрацию по площадке, периоду и статусу
func (r *Repository) GetByPartnerWithFilter(ctx context.Context, filter domain.PartnerBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"partner_id": filter.PartnerID})

	if filter.FacilityID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"facility_id": *filter.FacilityID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"slot_date": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_status": *filter.Status})
	}

	query, args, err := selectBuilder.
		OrderBy("slot_date DESC, start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPartnerWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPartnerWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Confirm применяет успешный исход платежа: confirmed/paid + детали платежа
// Защита от повторного применения: обновляются только строки payment_status='pending';
// если строка уже обработана - ErrAlreadySettled (идемпотентный no-op для вызывающего)
func (r *Repository) Confirm(ctx context.Context, id int64, confirmedAt time.Time, paymentMethod, gatewayPaymentID *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_status", domain.StatusConfirmed).
		Set("payment_status", domain.PaymentPaid).
		Set("confirmed_at", confirmedAt).
		Set("payment_method", paymentMethod).
		Set("gateway_payment_id", gatewayPaymentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_status": domain.PaymentPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSettlement(ctx, executor, "Confirm", query, args)
}

// MarkFailed применяет неуспешный исход платежа: failed/failed
// Та же идемпотентная защита, что и у Confirm
func (r *Repository) MarkFailed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_status", domain.StatusFailed).
		Set("payment_status", domain.PaymentFailed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_status": domain.PaymentPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkFailed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSettlement(ctx, executor, "MarkFailed", query, args)
}

// MarkRefunded применяет подтверждённый возврат: refunded/refunded
// Допустим только для оплаченных бронирований
func (r *Repository) MarkRefunded(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_status", domain.StatusRefunded).
		Set("payment_status", domain.PaymentRefunded).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_status": domain.PaymentPaid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRefunded - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRefunded - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRefunded - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrNotRefundable
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины
// Допустимо только для pending/confirmed; иначе ErrNotCancellable
func (r *Repository) Cancel(ctx context.Context, id int64, cancelledAt time.Time, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_status", domain.StatusCancelled).
		Set("cancelled_at", cancelledAt).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":             id,
			"booking_status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrNotCancellable
	}

	return nil
}

// execSettlement выполняет идемпотентное обновление исхода платежа
func (r *Repository) execSettlement(ctx context.Context, executor DBExecutor, op string, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAlreadySettled
	}

	return nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.PartnerID,
			&b.VenueID,
			&b.FacilityID,
			&b.ActivityID,
			&b.Amount,
			&b.DurationMinutes,
			&b.NumberOfSlots,
			&b.BookingDate,
			&b.StartTime,
			&b.EndTime,
			&b.Status,
			&b.PaymentStatus,
			&b.ConfirmedAt,
			&b.CancelledAt,
			&b.CancellationReason,
			&b.CustomerName,
			&b.CustomerPhone,
			&b.PaymentMethod,
			&b.GatewayPaymentID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
