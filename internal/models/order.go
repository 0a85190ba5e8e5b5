package models

import "time"

// Order is a customer commitment taken from the order book.
type Order struct {
	OrderID      string    `json:"order_id"`
	ItemCode     string    `json:"item_code,omitempty"`
	Quantity     int       `json:"quantity"`
	DeliveryDate time.Time `json:"delivery_date"`
	IsFixed      bool      `json:"is_fixed"` // schedule locked; urgency is still reported
}
