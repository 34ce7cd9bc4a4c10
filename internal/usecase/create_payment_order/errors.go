package create_payment_order

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_payment_order: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("create_payment_order: booking not found")

	// ErrPermissionDenied возвращается, когда бронирование принадлежит другому пользователю
	ErrPermissionDenied = errors.New("create_payment_order: permission denied")

	// ErrBookingNotPayable возвращается, когда бронирование не в состоянии
	// pending/pending (уже оплачено, отменено или провалено)
	ErrBookingNotPayable = errors.New("create_payment_order: booking is not payable")

	// ErrGatewayRejected возвращается, когда шлюз отклонил запрос на создание заказа
	ErrGatewayRejected = errors.New("create_payment_order: gateway rejected order")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment_order: internal error")
)
