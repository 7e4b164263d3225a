package models

// GatewayHandoff is everything needed to send the shopper to a payment
// provider. Fields are the backend-signed eSewa form values and are passed
// through verbatim; they are never recomputed here.
type GatewayHandoff struct {
	Gateway   PaymentMethod     `json:"gateway"`
	OrderID   string            `json:"orderId"`
	ActionURL string            `json:"actionUrl"`
	Fields    map[string]string `json:"fields,omitempty"`
	Pidx      string            `json:"pidx,omitempty"`
}

// PaymentVerification is the backend's verdict on a gateway callback.
type PaymentVerification struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Orders  []OrderSummary `json:"-"`
}

// PaymentStatusView is what the payment landing route renders.
type PaymentStatusView struct {
	Success         bool             `json:"success"`
	Gateway         PaymentMethod    `json:"gateway,omitempty"`
	Message         string           `json:"message"`
	Next            string           `json:"next"`
	RedirectAfterMs int64            `json:"redirectAfterMs,omitempty"`
	Order           *AggregatedOrder `json:"order,omitempty"`
}

// PendingPayment is kept on the device between order placement and the
// gateway redirect.
type PendingPayment struct {
	Handoff GatewayHandoff  `json:"handoff"`
	Order   AggregatedOrder `json:"order"`
}
