package domain

import "time"

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is a placed order with its full totals breakdown.
type Order struct {
	ID              string       `json:"id"`
	SessionID       string       `json:"session_id"`
	Status          string       `json:"status"`
	Items           []OrderItem  `json:"items"`
	SubtotalAmount  int64        `json:"subtotal_amount"`
	AmountDiscount  int64        `json:"amount_discount"`
	PercentDiscount int64        `json:"percent_discount"`
	ShippingAmount  int64        `json:"shipping_amount"`
	TotalAmount     int64        `json:"total_amount"`
	Currency        string       `json:"currency"`
	ShippingTier    ShippingTier `json:"shipping_tier"`
	PaymentMethod   string       `json:"payment_method"`
	ShippingAddress Address      `json:"shipping_address"`
	PromotionID     *int64       `json:"promotion_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// OrderItem is a purchased line, copied from the cart at checkout time.
type OrderItem struct {
	ProductID  int64  `json:"product_id"`
	VariantID  int64  `json:"variant_id"`
	Name       string `json:"name"`
	Size       string `json:"size"`
	Color      string `json:"color"`
	Price      int64  `json:"price"`
	Qty        int    `json:"qty"`
	IsPreorder bool   `json:"is_preorder"`
}

// Address is the shipping address collected at checkout.
type Address struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	Barangay    string `json:"barangay,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province"`
	Region      string `json:"region,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
}

// VariantStock is the per-variant availability used for sold-out display.
type VariantStock struct {
	VariantID int64  `json:"variant_id"`
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Qty       int    `json:"qty"`
}
