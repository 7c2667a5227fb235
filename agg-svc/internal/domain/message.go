package domain

import "time"

const OrderPlacedEvent = "order_placed"

// OrderEvent is the message order-svc publishes on the order events topic.
type OrderEvent struct {
	Type           string      `json:"type"`
	OrderRef       string      `json:"order_ref"`
	SessionID      string      `json:"session_id"`
	DeliveryMethod string      `json:"delivery_method"`
	Lines          []OrderLine `json:"lines"`
	Total          float64     `json:"total"`
	Timestamp      time.Time   `json:"timestamp"`
}

type OrderLine struct {
	ItemID   string  `json:"item_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
