package cancel_booking

import "time"

// Request модель запроса на отмену бронирования
// ActorID - владелец бронирования или партнёр площадки
type Request struct {
	ActorID   int64
	BookingID int64
	Reason    *string
}

// Response итоговое состояние бронирования после отмены
type Response struct {
	BookingID     int64
	Status        string
	PaymentStatus string
	CancelledAt   *time.Time
	ReleasedSlots int

	// RefundRequired true, если бронирование было оплачено: деньги
	// возвращаются отдельным уведомлением шлюза об исходе refunded
	RefundRequired bool
}
