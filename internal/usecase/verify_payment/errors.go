package verify_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("verify_payment: invalid input data")

	// ErrOrderNotFound возвращается, когда заказ не найден в журнале
	ErrOrderNotFound = errors.New("verify_payment: order not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("verify_payment: internal error")
)
