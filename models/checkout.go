package models

// ShippingInfo is collected at checkout. The server recomputes and validates
// final amounts; totals sent by the client are advisory.
type ShippingInfo struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state"`
	Zip       string `json:"zip" validate:"required"`
}

type CardDetails struct {
	CardName   string `json:"card_name"`
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

type OrderPayload struct {
	Shipping      ShippingInfo `json:"shipping" validate:"required"`
	PaymentMethod string       `json:"payment_method" validate:"required,oneof=card cod"`
	Items         []OrderItem  `json:"items" validate:"required,min=1"`
	TotalAmount   float64      `json:"total_amount,omitempty"`
	Tax           float64      `json:"tax,omitempty"`
	ShippingCost  float64      `json:"shipping_cost,omitempty"`
	CardDetails   *CardDetails `json:"card_details,omitempty"`
}
