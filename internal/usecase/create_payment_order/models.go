package create_payment_order

// Request модель запроса на создание платёжного заказа
type Request struct {
	UserID    int64
	BookingID int64
}

// Response модель ответа с данными заказа шлюза
// Amount в минорных единицах - то, что фронт передаёт в checkout-виджет шлюза
type Response struct {
	BookingID int64
	OrderID   string
	Amount    int64
	Currency  string
	Receipt   string
	Status    string
}
