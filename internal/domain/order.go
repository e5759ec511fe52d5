package domain

import "time"

// OrderStatus is the admin-settable payment/fulfilment state of an order.
// Any status may be set from any other; there is no enforced transition table.
type OrderStatus string

const (
	StatusPaymentPending OrderStatus = "payment-pending"
	StatusPaid           OrderStatus = "paid"
	StatusInTransit      OrderStatus = "in-transit"
	StatusDelivered      OrderStatus = "delivered"
)

// ValidOrderStatus reports whether s is one of the four known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusPaymentPending, StatusPaid, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

// OrderCustomer holds the identity snapshot captured at checkout.
type OrderCustomer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Order is a checkout record. Items, TotalAmount and TotalCount are a frozen
// snapshot taken at creation time and are never recomputed from live cart state.
type Order struct {
	ID          string                 `json:"id"`
	CreatedAt   time.Time              `json:"createdAt"`
	Status      OrderStatus            `json:"status"`
	Customer    *OrderCustomer         `json:"customer,omitempty"`
	Profile     map[string]interface{} `json:"profile,omitempty"`
	Items       []CartItem             `json:"items"`
	TotalCount  int                    `json:"totalCount"`
	TotalAmount float64                `json:"totalAmount"`
	Currency    string                 `json:"currency"`
	ProofURL    string                 `json:"proofUrl,omitempty"`
}
