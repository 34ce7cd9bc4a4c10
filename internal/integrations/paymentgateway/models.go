package paymentgateway

// Order заказ, созданный на стороне платёжного шлюза
type Order struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"` // в минорных единицах (пайсы/копейки)
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// createOrderRequest тело запроса на создание заказа
type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// ErrorResponse модель ошибки шлюза
type ErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
