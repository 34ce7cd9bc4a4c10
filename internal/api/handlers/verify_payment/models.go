package verify_payment

import (
	verifyPayment "github.com/turfbook/TurfBookingService/internal/usecase/verify_payment"
)

// VerifyPaymentRequest HTTP request model
// Поля повторяют callback шлюза после оплаты на стороне клиента
type VerifyPaymentRequest struct {
	OrderID       string  `json:"orderId"`
	PaymentID     string  `json:"paymentId"`
	Signature     string  `json:"signature"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
}

// VerifyPaymentResponse HTTP response model
type VerifyPaymentResponse struct {
	BookingID      int64  `json:"bookingId"`
	OrderID        string `json:"orderId"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"paymentStatus"`
	SignatureValid bool   `json:"signatureValid"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *VerifyPaymentRequest) ToUseCaseRequest() *verifyPayment.Request {
	return &verifyPayment.Request{
		OrderID:       r.OrderID,
		PaymentID:     r.PaymentID,
		Signature:     r.Signature,
		PaymentMethod: r.PaymentMethod,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *verifyPayment.Response) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		BookingID:      resp.BookingID,
		OrderID:        resp.OrderID,
		Status:         resp.Status,
		PaymentStatus:  resp.PaymentStatus,
		SignatureValid: resp.SignatureValid,
	}
}
