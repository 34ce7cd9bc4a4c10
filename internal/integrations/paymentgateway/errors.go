package paymentgateway

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("paymentgateway client: invalid response")

	// ErrOrderRejected возвращается, когда шлюз отклонил создание заказа
	ErrOrderRejected = errors.New("paymentgateway client: order rejected")
)
