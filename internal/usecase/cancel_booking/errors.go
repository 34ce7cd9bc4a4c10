package cancel_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrPermissionDenied возвращается, когда пользователь не владелец
	// бронирования и не его партнёр
	ErrPermissionDenied = errors.New("cancel_booking: permission denied")

	// ErrNotCancellable возвращается, когда бронирование нельзя отменить
	// (уже отменено, провалено или возвращено)
	ErrNotCancellable = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
