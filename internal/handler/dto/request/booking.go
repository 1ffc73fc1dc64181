package request

type ConfirmBookingRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	CustomerRef     string `json:"customerRef" binding:"required"`
}
