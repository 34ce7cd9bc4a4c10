package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrAlreadySettled возвращается, когда исход платежа уже применён
	// (идемпотентная защита: повторное применение не выполняет записей)
	ErrAlreadySettled = errors.New("booking.repository: payment outcome already applied")

	// ErrNotCancellable возвращается, когда бронирование нельзя отменить
	ErrNotCancellable = errors.New("booking.repository: booking cannot be cancelled")

	// ErrNotRefundable возвращается, когда бронирование не в состоянии paid
	ErrNotRefundable = errors.New("booking.repository: booking is not refundable")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
