package create_payment_order

import (
	createPaymentOrder "github.com/turfbook/TurfBookingService/internal/usecase/create_payment_order"
)

// PaymentOrderResponse HTTP response model
// amount в минорных единицах - для передачи в checkout-виджет шлюза
type PaymentOrderResponse struct {
	BookingID int64  `json:"bookingId"`
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createPaymentOrder.Response) *PaymentOrderResponse {
	return &PaymentOrderResponse{
		BookingID: resp.BookingID,
		OrderID:   resp.OrderID,
		Amount:    resp.Amount,
		Currency:  resp.Currency,
		Receipt:   resp.Receipt,
		Status:    resp.Status,
	}
}
