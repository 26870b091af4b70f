package orders

import "time"

// Order statuses. The kitchen moves an order forward through
// pending -> confirmed -> preparing -> ready -> completed; cancellation is
// allowed from any non-terminal state.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Store paths recorded on each order so operators can reconcile writes that
// landed on the local fallback while DynamoDB was unreachable.
const (
	StorePathPrimary  = "dynamodb"
	StorePathFallback = "rqlite"
)

// Item is a line item within an order. Name and unit price are denormalized
// at order time so later menu edits don't rewrite history.
type Item struct {
	ProductID string  `dynamodbav:"product_id" json:"product_id"`
	Name      string  `dynamodbav:"name" json:"name"`
	Price     float64 `dynamodbav:"price" json:"price"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
}

// Subtotal returns price * quantity for the line.
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is the record stored in the orders table.
type Order struct {
	OrderID       string    `dynamodbav:"order_id" json:"order_id"` // PK
	OrderNumber   string    `dynamodbav:"order_number" json:"order_number"`
	UserID        string    `dynamodbav:"user_id,omitempty" json:"user_id,omitempty"` // empty for offline orders
	CustomerName  string    `dynamodbav:"customer_name,omitempty" json:"customer_name,omitempty"`
	CustomerPhone string    `dynamodbav:"customer_phone,omitempty" json:"customer_phone,omitempty"`
	CustomerEmail string    `dynamodbav:"customer_email,omitempty" json:"customer_email,omitempty"`
	Items         []Item    `dynamodbav:"items" json:"items"`
	Total         float64   `dynamodbav:"total" json:"total"`
	Status        string    `dynamodbav:"status" json:"status"`
	PointsEarned  int       `dynamodbav:"points_earned" json:"points_earned"`
	PointsUsed    int       `dynamodbav:"points_used" json:"points_used"`
	Offline       bool      `dynamodbav:"offline,omitempty" json:"offline,omitempty"`
	StorePath     string    `dynamodbav:"store_path" json:"store_path"`
	CreatedAt     time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt     time.Time `dynamodbav:"updated_at" json:"updated_at"`
}
