package validation

// Item represents a single cart line item.
type Item struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"` // must be >= 1
	Price     float64 `json:"price" validate:"gte=0"`             // price per unit
}

// CheckoutRequest is the payload for POST /api/orders.
type CheckoutRequest struct {
	CustomerName  string  `json:"customer_name,omitempty"`
	CustomerPhone string  `json:"customer_phone,omitempty"`
	CustomerEmail string  `json:"customer_email,omitempty" validate:"omitempty,email"`
	Items         []Item  `json:"items" validate:"required,min=1,dive"` // at least one item
	Total         float64 `json:"total" validate:"gte=0"`               // pre-redemption total the client claims
	RedeemPoints  int     `json:"redeem_points,omitempty" validate:"gte=0"`
}

// OfflineOrderRequest is the payload for POST /api/admin/orders/offline.
// Staff key the customer in by hand, so only a name is required.
type OfflineOrderRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required"`
	CustomerPhone string  `json:"customer_phone,omitempty"`
	Items         []Item  `json:"items" validate:"required,min=1,dive"`
	Total         float64 `json:"total" validate:"gte=0"`
}

// ProductRequest is the payload for creating a menu product.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// ProductPatchRequest carries a partial product update. All fields are
// optional; only the ones present are applied.
type ProductPatchRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Available   *bool    `json:"available,omitempty"`
}

// StatusUpdateRequest is the payload for PUT /api/admin/orders/:id/status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// RazorpayOrderRequest is the payload for POST /api/payments/create-razorpay-order.
type RazorpayOrderRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"` // rupees; converted to paise server-side
	Receipt string  `json:"receipt,omitempty"`
}

// SendEmailRequest is the payload for POST /api/send-order-email. It mirrors
// the message the checkout path enqueues, for clients that retry a failed
// confirmation.
type SendEmailRequest struct {
	OrderNumber   string  `json:"order_number" validate:"required"`
	CustomerName  string  `json:"customer_name,omitempty"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	Items         []Item  `json:"items,omitempty" validate:"dive"`
	Total         float64 `json:"total" validate:"gte=0"`
	PointsEarned  int     `json:"points_earned,omitempty" validate:"gte=0"`
	PointsUsed    int     `json:"points_used,omitempty" validate:"gte=0"`
}
