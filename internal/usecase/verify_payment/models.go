package verify_payment

// Request модель уведомления об оплате
// Подпись - HMAC от пары orderID|paymentID на секрете шлюза
type Request struct {
	OrderID   string
	PaymentID string
	Signature string

	PaymentMethod *string // способ оплаты из уведомления (опционально)
}

// Response итог проверки и реконсиляции
type Response struct {
	BookingID     int64
	OrderID       string
	Status        string
	PaymentStatus string

	// SignatureValid false означает, что исход применён как failed
	SignatureValid bool

	// AlreadySettled true, если исход уже был применён ранее
	AlreadySettled bool
}
