package entities

import (
	"time"
)

// OrderStatus represents the fulfillment state of an order.
// Transitions are owned by the order-fulfillment workflow, not the engine.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusHold      OrderStatus = "hold"
)

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

// ValidPaymentMethod reports whether m names a supported payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI:
		return true
	}
	return false
}

// Order is a committed sale: header plus line items
type Order struct {
	ID            string        `json:"id" db:"id"`
	PharmacyID    string        `json:"pharmacy_id" db:"pharmacy_id"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"`
	CustomerName  string        `json:"customer_name" db:"customer_name"`
	CustomerPhone string        `json:"customer_phone,omitempty" db:"customer_phone"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	Subtotal      float64       `json:"subtotal" db:"subtotal"`
	Discount      float64       `json:"discount" db:"discount"`
	Tax           float64       `json:"tax" db:"tax"`
	Total         float64       `json:"total" db:"total"`
	Status        OrderStatus   `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	Items         []LineItem    `json:"items" db:"-"`
}

// LineItem is one sold medicine inside an order
type LineItem struct {
	ID        string  `json:"id" db:"id"`
	OrderID   string  `json:"order_id" db:"order_id"`
	ListingID string  `json:"listing_id" db:"listing_id"`
	Name      string  `json:"name" db:"name"`
	Quantity  int     `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
	LineTotal float64 `json:"line_total" db:"line_total"`
}
