package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/turfbook/TurfBookingService/internal/domain"
	"github.com/turfbook/TurfBookingService/pkg/dbmetrics"
	"github.com/turfbook/TurfBookingService/pkg/psqlbuilder"
)

// pqUniqueViolation код ошибки нарушения уникальности PostgreSQL
const pqUniqueViolation = "23505"

var slotColumns = []string{
	"id",
	"facility_id",
	"slot_date",
	"start_time",
	"end_time",
	"amount",
	"availability",
	"booking_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBulk создает пакет слотов (массовое создание владельцем площадки)
// Слот на занятое время (facility_id, slot_date, start_time) даёт ErrDuplicateSlot
func (r *Repository) CreateBulk(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error) {
	if len(slots) == 0 {
		return []*domain.Slot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("slots").
		Columns("facility_id", "slot_date", "start_time", "end_time", "amount", "availability")

	for _, s := range slots {
		insertBuilder = insertBuilder.Values(
			s.FacilityID,
			s.Date,
			s.StartTime,
			s.EndTime,
			s.Amount,
			domain.SlotAvailable,
		)
	}

	query, args, err := insertBuilder.
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBulk - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlot
		}
		return nil, fmt.Errorf("%w: CreateBulk - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	// RETURNING отдаёт строки в порядке вставки
	i := 0
	for rows.Next() {
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&slots[i].ID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: CreateBulk - scan returning: %v", ErrScanRow, err)
		}
		slots[i].Availability = domain.SlotAvailable
		slots[i].CreatedAt = createdAt.Time
		slots[i].UpdatedAt = updatedAt.Time
		i++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CreateBulk - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// GetByIDs получает слоты по списку ID
// Внутри транзакции добавляет FOR UPDATE - это точка захвата строк
// при создании бронирования (см. usecase create_booking)
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("slot_date ASC, start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// GetByFacilityAndDate получает все слоты площадки на указанную дату
func (r *Repository) GetByFacilityAndDate(ctx context.Context, facilityID int64, date string) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"facility_id": facilityID, "slot_date": date}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// GetIDsByBookingID получает ID всех слотов бронирования
func (r *Repository) GetIDsByBookingID(ctx context.Context, bookingID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("slots").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetIDsByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetIDsByBookingID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetIDsByBookingID - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetIDsByBookingID - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// Lock захватывает свободные слоты под бронирование
// Обновляются только строки availability='available' без booking_id;
// если обновилось меньше, чем len(ids), часть слотов занята - ErrSlotNotAvailable
// Вызывается строго внутри транзакции создания бронирования
func (r *Repository) Lock(ctx context.Context, ids []int64, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("availability", domain.SlotLocked).
		Set("booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids, "availability": domain.SlotAvailable}).
		Where("booking_id IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Lock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Lock - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Lock - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected != int64(len(ids)) {
		return ErrSlotNotAvailable
	}

	return nil
}

// MarkBooked переводит слоты бронирования из locked в booked (оплата захвачена)
func (r *Repository) MarkBooked(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("availability", domain.SlotBooked).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkBooked - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Release освобождает слоты бронирования (оплата не прошла или возврат)
// booking_id сохраняется для аудита - доступность определяет только availability
func (r *Repository) Release(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("availability", domain.SlotAvailable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// ReleaseAndClear освобождает слоты и обнуляет booking_id (явная отмена брони)
func (r *Repository) ReleaseAndClear(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("availability", domain.SlotAvailable).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseAndClear - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseAndClear - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var s domain.Slot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.FacilityID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.Amount,
			&s.Availability,
			&s.BookingID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}
