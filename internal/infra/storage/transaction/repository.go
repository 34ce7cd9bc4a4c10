package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/turfbook/TurfBookingService/internal/domain"
	"github.com/turfbook/TurfBookingService/pkg/dbmetrics"
	"github.com/turfbook/TurfBookingService/pkg/psqlbuilder"
)

// pqUniqueViolation код ошибки нарушения уникальности PostgreSQL
const pqUniqueViolation = "23505"

var recordColumns = []string{
	"id",
	"order_id",
	"booking_id",
	"amount",
	"currency",
	"payment_method",
	"captured",
	"captured_at",
	"is_refunded",
	"gateway_payment_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий журнала платёжных попыток
// Одна запись на заказ шлюза; order_id уникален на уровне схемы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория транзакций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись платёжной попытки при запросе заказа у шлюза
func (r *Repository) Create(ctx context.Context, rec *domain.TransactionRecord) (*domain.TransactionRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("transaction_history").
		Columns("order_id", "booking_id", "amount", "currency").
		Values(rec.OrderID, rec.BookingID, rec.Amount, rec.Currency).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return rec, nil
}

// GetByOrderID получает запись по ID заказа шлюза
// Внутри транзакции добавляет FOR UPDATE
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.TransactionRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(recordColumns...).
		From("transaction_history").
		Where(squirrel.Eq{"order_id": orderID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - build select query: %v", ErrBuildQuery, err)
	}

	var rec domain.TransactionRecord
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&rec.OrderID,
		&rec.BookingID,
		&rec.Amount,
		&rec.Currency,
		&rec.PaymentMethod,
		&rec.Captured,
		&rec.CapturedAt,
		&rec.IsRefunded,
		&rec.GatewayPaymentID,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - scan record: %v", ErrScanRow, err)
	}

	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return &rec, nil
}

// GetByBookingID получает все платёжные попытки бронирования
// (бронирование может накопить несколько попыток до успешной оплаты)
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.TransactionRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(recordColumns...).
		From("transaction_history").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.TransactionRecord, 0)
	for rows.Next() {
		var rec domain.TransactionRecord
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rec.ID,
			&rec.OrderID,
			&rec.BookingID,
			&rec.Amount,
			&rec.Currency,
			&rec.PaymentMethod,
			&rec.Captured,
			&rec.CapturedAt,
			&rec.IsRefunded,
			&rec.GatewayPaymentID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBookingID - scan row: %v", ErrScanRow, err)
		}

		rec.CreatedAt = createdAt.Time
		rec.UpdatedAt = updatedAt.Time

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}

// Capture помечает заказ захваченным
// Обновляются только строки captured=false: повторное уведомление шлюза
// по уже захваченному заказу даёт ErrAlreadyCaptured и ни одной записи
func (r *Repository) Capture(ctx context.Context, orderID string, capturedAt time.Time, gatewayPaymentID string, paymentMethod *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("transaction_history").
		Set("captured", true).
		Set("captured_at", capturedAt).
		Set("gateway_payment_id", gatewayPaymentID).
		Set("payment_method", paymentMethod).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"order_id": orderID, "captured": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Capture - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Capture - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Capture - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyCaptured
	}

	return nil
}

// MarkFailed фиксирует неуспешный исход платежа по заказу
// Захваченные записи не перезаписываются
func (r *Repository) MarkFailed(ctx context.Context, orderID string, gatewayPaymentID *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("transaction_history").
		Set("captured", false).
		Set("gateway_payment_id", gatewayPaymentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"order_id": orderID, "captured": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkFailed - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkFailed - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// MarkRefunded помечает захваченный заказ возвращённым
func (r *Repository) MarkRefunded(ctx context.Context, orderID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("transaction_history").
		Set("is_refunded", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"order_id": orderID, "captured": true, "is_refunded": false}).
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

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}
