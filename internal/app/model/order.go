package model

import "time"

type OrderPaymentState string

const (
	OrderPaymentPending   OrderPaymentState = "pending"   // gateway order, not yet confirmed
	OrderPaymentCompleted OrderPaymentState = "completed" // confirmed by the return handler
	OrderPaymentCOD       OrderPaymentState = "cod"       // pays on delivery
)

// OrderRef is the session's record of an order it placed. The order itself is
// owned by the commerce API; this is just enough to render a history list and
// to tell the return handler which order a gateway redirect belongs to.
type OrderRef struct {
	ID       string            `json:"id"`
	Total    float64           `json:"total"`
	Method   PaymentMethod     `json:"method"`
	Payment  OrderPaymentState `json:"payment"`
	PlacedAt time.Time         `json:"placed_at"`
}
