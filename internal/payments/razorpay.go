// Package payments creates Razorpay orders for the checkout flow. The client
// collects the payment against the returned razorpay order id; the storefront
// never stores card data.
package payments

import (
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"
)

// orderCreator is the slice of the Razorpay SDK the service uses.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Service wraps the Razorpay orders API.
type Service struct {
	orders  orderCreator
	keyID   string
	enabled bool
}

// New returns a Service backed by the Razorpay SDK. With empty credentials
// the service reports itself disabled and every CreateOrder fails cleanly.
func New(keyID, keySecret string) *Service {
	if keyID == "" || keySecret == "" {
		return &Service{}
	}
	client := razorpay.NewClient(keyID, keySecret)
	return &Service{orders: client.Order, keyID: keyID, enabled: true}
}

// Enabled reports whether Razorpay credentials are configured.
func (s *Service) Enabled() bool { return s.enabled }

// KeyID returns the public key id the client needs to open the checkout
// widget.
func (s *Service) KeyID() string { return s.keyID }

// CreatedOrder is the subset of the Razorpay order the client needs.
type CreatedOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	KeyID    string `json:"key_id"`
}

// CreateOrder registers a payment intent with Razorpay. amount is in rupees;
// Razorpay wants paise. receipt is typically the storefront order number.
func (s *Service) CreateOrder(amount float64, receipt string) (*CreatedOrder, error) {
	if !s.enabled {
		return nil, fmt.Errorf("razorpay is not configured")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %.2f", amount)
	}

	paise := int64(math.Round(amount * 100))
	data := map[string]interface{}{
		"amount":   paise,
		"currency": "INR",
	}
	if receipt != "" {
		data["receipt"] = receipt
	}

	body, err := s.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay response missing order id")
	}
	return &CreatedOrder{
		ID:       id,
		Amount:   paise,
		Currency: "INR",
		Receipt:  receipt,
		KeyID:    s.keyID,
	}, nil
}
