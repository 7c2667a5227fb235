// Package checkout prices a cart and simulates placing the order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gourmet-ordering/order-svc/internal/domain"

	"github.com/lucsky/cuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCheckout    = errors.New("invalid checkout request")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

const (
	DeliveryFee = 15.0
	ServiceFee  = 5.0

	DefaultDelay = 2 * time.Second

	SuccessMessage = "Order placed successfully! You will receive a confirmation email shortly."
)

// Cart is what checkout needs from a session cart.
type Cart interface {
	Items() []domain.CartItem
	RemoveLines(lines []domain.CartItem)
	BeginCheckout() bool
	EndCheckout()
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

type ServiceInterface interface {
	Quote(c Cart, method string) domain.Quote
	Submit(ctx context.Context, sessionID string, c Cart, req domain.CheckoutRequest) (*domain.Confirmation, error)
}

var _ ServiceInterface = (*Service)(nil)

// Fees returns the delivery and service fee for a delivery method. Anything
// other than "delivery" is charged as pickup.
func Fees(method string) (delivery, service float64) {
	if method == domain.DeliveryMethodDelivery {
		return DeliveryFee, ServiceFee
	}
	return 0, ServiceFee
}

// BuildQuote prices items. Total is computed from the undiscounted subtotal;
// the discounted subtotal and line totals are informational.
func BuildQuote(method string, items []domain.CartItem) domain.Quote {
	q := domain.Quote{
		DeliveryMethod: method,
		Lines:          make([]domain.QuoteLine, 0, len(items)),
	}
	for _, item := range items {
		q.Subtotal += item.Price * float64(item.Quantity)
		line := item.DiscountedPrice() * float64(item.Quantity)
		q.DiscountedSubtotal += line
		q.Lines = append(q.Lines, domain.QuoteLine{Item: item, LineTotal: line})
	}
	q.DeliveryFee, q.ServiceFee = Fees(method)
	q.Total = q.Subtotal + q.DeliveryFee + q.ServiceFee
	return q
}

type Service struct {
	delay     time.Duration
	publisher OrderPublisher
	qr        QRGenerator
	log       logrus.FieldLogger
	newRef    func() string
	now       func() time.Time
}

type Option func(*Service)

func WithPublisher(publisher OrderPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithQRGenerator(qr QRGenerator) Option {
	return func(s *Service) { s.qr = qr }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

func WithRefGenerator(newRef func() string) Option {
	return func(s *Service) { s.newRef = newRef }
}

func NewService(delay time.Duration, opts ...Option) *Service {
	s := &Service{
		delay:  delay,
		log:    logrus.StandardLogger(),
		newRef: cuid.New,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Quote(c Cart, method string) domain.Quote {
	return BuildQuote(method, c.Items())
}

// Submit waits out the processing delay and then removes the ordered lines
// from the cart. Only one checkout per cart runs at a time, and items added
// during the delay stay in the cart. Publishing the order event and rendering
// the QR code are best effort; their failures are logged and never fail the
// order. Cancelling ctx during the delay leaves the cart untouched.
func (s *Service) Submit(ctx context.Context, sessionID string, c Cart, req domain.CheckoutRequest) (*domain.Confirmation, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if !c.BeginCheckout() {
		return nil, ErrCheckoutInProgress
	}
	defer c.EndCheckout()

	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	quote := BuildQuote(req.DeliveryMethod, items)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("checkout aborted: %w", ctx.Err())
	case <-timer.C:
	}

	c.RemoveLines(items)

	confirmation := &domain.Confirmation{
		OrderRef: s.newRef(),
		Quote:    quote,
		Message:  SuccessMessage,
	}
	log := s.log.WithFields(logrus.Fields{"order_ref": confirmation.OrderRef, "session": sessionID})

	if s.publisher != nil {
		event := domain.OrderEvent{
			Type:           domain.OrderPlacedEvent,
			OrderRef:       confirmation.OrderRef,
			SessionID:      sessionID,
			DeliveryMethod: req.DeliveryMethod,
			Lines:          make([]domain.OrderLine, 0, len(items)),
			Total:          quote.Total,
			Timestamp:      s.now(),
		}
		for _, item := range items {
			event.Lines = append(event.Lines, domain.OrderLine{ItemID: item.ID, Quantity: item.Quantity, Price: item.Price})
		}
		if err := s.publisher.PublishOrder(context.WithoutCancel(ctx), event); err != nil {
			log.WithError(err).Warn("failed to publish order event")
		}
	}

	if s.qr != nil {
		png, err := s.qr.Generate(confirmation.OrderRef)
		if err != nil {
			log.WithError(err).Warn("failed to generate order QR code")
		} else {
			confirmation.QRCode = png
		}
	}

	log.WithField("total", quote.Total).Info("order placed")
	return confirmation, nil
}

// Validate checks the fields the checkout form requires.
func Validate(req domain.CheckoutRequest) error {
	var problems []string

	switch req.DeliveryMethod {
	case domain.DeliveryMethodDelivery, domain.DeliveryMethodPickup:
	default:
		problems = append(problems, "delivery_method must be delivery or pickup")
	}
	switch req.PaymentMethod {
	case domain.PaymentMethodCard, domain.PaymentMethodCash:
	default:
		problems = append(problems, "payment_method must be card or cash")
	}

	required := map[string]string{
		"contact.first_name": req.Contact.FirstName,
		"contact.last_name":  req.Contact.LastName,
		"contact.email":      req.Contact.Email,
		"contact.phone":      req.Contact.Phone,
	}
	if req.DeliveryMethod == domain.DeliveryMethodDelivery {
		required["address.street"] = req.Address.Street
		required["address.city"] = req.Address.City
		required["address.zip_code"] = req.Address.ZipCode
	}
	for _, field := range requiredOrder {
		value, ok := required[field]
		if ok && strings.TrimSpace(value) == "" {
			problems = append(problems, field+" is required")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCheckout, strings.Join(problems, "; "))
	}
	return nil
}

var requiredOrder = []string{
	"contact.first_name",
	"contact.last_name",
	"contact.email",
	"contact.phone",
	"address.street",
	"address.city",
	"address.zip_code",
}
