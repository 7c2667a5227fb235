package domain

import "time"

const (
	DeliveryMethodDelivery = "delivery"
	DeliveryMethodPickup   = "pickup"

	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"

	OrderPlacedEvent = "order_placed"
)

type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	// Discount is a percentage in [0, 100]; zero means none.
	Discount float64 `json:"discount,omitempty"`
}

// DiscountedPrice is the unit price shown at checkout.
func (i CartItem) DiscountedPrice() float64 {
	if i.Discount <= 0 {
		return i.Price
	}
	return i.Price * (1 - i.Discount/100)
}

type CartState struct {
	Items           []CartItem `json:"items"`
	Total           float64    `json:"total"`
	DiscountedTotal float64    `json:"discounted_total"`
	Count           int        `json:"count"`
	IsOpen          bool       `json:"is_open"`
}

type FavoriteItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

type QuoteLine struct {
	Item      CartItem `json:"item"`
	LineTotal float64  `json:"line_total"`
}

type Quote struct {
	DeliveryMethod     string      `json:"delivery_method"`
	Lines              []QuoteLine `json:"lines"`
	Subtotal           float64     `json:"subtotal"`
	DiscountedSubtotal float64     `json:"discounted_subtotal"`
	DeliveryFee        float64     `json:"delivery_fee"`
	ServiceFee         float64     `json:"service_fee"`
	Total              float64     `json:"total"`
}

type Contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Address struct {
	Street       string `json:"street"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	Instructions string `json:"instructions,omitempty"`
}

type CheckoutRequest struct {
	DeliveryMethod string  `json:"delivery_method"`
	PaymentMethod  string  `json:"payment_method"`
	Contact        Contact `json:"contact"`
	Address        Address `json:"address"`
}

type Confirmation struct {
	OrderRef string `json:"order_ref"`
	Quote    Quote  `json:"quote"`
	Message  string `json:"message"`
	QRCode   []byte `json:"qr_code,omitempty"`
}

type OrderLine struct {
	ItemID   string  `json:"item_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderEvent is published to Kafka once an order is placed.
type OrderEvent struct {
	Type           string      `json:"type"`
	OrderRef       string      `json:"order_ref"`
	SessionID      string      `json:"session_id"`
	DeliveryMethod string      `json:"delivery_method"`
	Lines          []OrderLine `json:"lines"`
	Total          float64     `json:"total"`
	Timestamp      time.Time   `json:"timestamp"`
}
