package apply_payment_outcome

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("apply_payment_outcome: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("apply_payment_outcome: booking not found")

	// ErrOrderNotFound возвращается, когда запись по order_id не найдена
	ErrOrderNotFound = errors.New("apply_payment_outcome: order not found")

	// ErrOrderMismatch возвращается, когда заказ относится к другому бронированию
	ErrOrderMismatch = errors.New("apply_payment_outcome: order does not belong to booking")

	// ErrOutcomeConflict возвращается при недопустимом переходе
	// (например, возврат по неоплаченному бронированию)
	ErrOutcomeConflict = errors.New("apply_payment_outcome: outcome conflicts with booking state")

	// ErrPartialReconciliation возвращается, когда fallback-фаза не смогла
	// применить все три обновления; детали по каждой записи в логах
	ErrPartialReconciliation = errors.New("apply_payment_outcome: partial reconciliation failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("apply_payment_outcome: internal error")

	// errSettledRace внутренний сигнал: конкурирующая реконсиляция успела
	// первой между нашей проверкой состояния и записью
	errSettledRace = errors.New("apply_payment_outcome: concurrent reconciliation won")
)
