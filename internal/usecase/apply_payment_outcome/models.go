package apply_payment_outcome

// Outcome исход платежа, сообщённый шлюзом
type Outcome string

const (
	// OutcomeSuccess подпись платежа проверена, средства захвачены
	OutcomeSuccess Outcome = "success"

	// OutcomeFailed платёж не прошёл или подпись некорректна
	OutcomeFailed Outcome = "failed"

	// OutcomeRefunded подтверждённый возврат по оплаченному бронированию
	OutcomeRefunded Outcome = "refunded"
)

// Request модель запроса на применение исхода платежа
type Request struct {
	Outcome   Outcome
	BookingID int64
	Amount    float64
	OrderID   string
	PaymentID string // обязателен для OutcomeSuccess

	PaymentMethod *string // способ оплаты из уведомления шлюза (опционально)
}

// Response итоговое состояние бронирования после реконсиляции
type Response struct {
	BookingID     int64
	OrderID       string
	Status        string // booking_status после применения
	PaymentStatus string

	// AlreadySettled true, если исход уже был применён ранее
	// (идемпотентный no-op: записей не выполнялось)
	AlreadySettled bool

	// Fallback true, если исход применён нетранзакционной fallback-фазой
	Fallback bool
}
