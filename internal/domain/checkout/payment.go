package checkout

// PaymentStatus mirrors the external processor's intent status in the four
// buckets the engine cares about. Failed and Canceled are definitive; a
// refresh returning either must never be retried.
type PaymentStatus string

const (
	PaymentRequiresPayment PaymentStatus = "requires_payment"
	PaymentSucceeded       PaymentStatus = "succeeded"
	PaymentFailed          PaymentStatus = "failed"
	PaymentCanceled        PaymentStatus = "canceled"
)

func (p PaymentStatus) Settled() bool {
	return p == PaymentSucceeded
}

func (p PaymentStatus) Definitive() bool {
	return p == PaymentSucceeded || p == PaymentFailed || p == PaymentCanceled
}
