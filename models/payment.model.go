package models

// GatewayOrderRequest is the body of the payment order endpoint. Amount is in
// minor currency units (paise for INR).
type GatewayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
	Receipt  string `json:"receipt,omitempty"`
}

// GatewayOrder is the order created at the payment gateway
type GatewayOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Prefill is passed to the hosted payment widget
type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Theme of the hosted payment widget
type Theme struct {
	Color string `json:"color"`
}

// CheckoutOptions is what the client needs to open the hosted payment widget
type CheckoutOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	OrderID     string  `json:"orderId"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

// GatewayResponse is what the widget hands to the success handler
type GatewayResponse struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}
