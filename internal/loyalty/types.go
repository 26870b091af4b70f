package loyalty

import "time"

// Profile is the per-user loyalty record: reward points plus lifetime order
// statistics. It is created lazily on first order or first authenticated load
// and mutated only through atomic increments.
type Profile struct {
	UserID      string    `dynamodbav:"user_id" json:"user_id"` // PK
	Email       string    `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Name        string    `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Points      int       `dynamodbav:"points" json:"points"`
	TotalOrders int       `dynamodbav:"total_orders" json:"total_orders"`
	TotalSpent  float64   `dynamodbav:"total_spent" json:"total_spent"`
	CreatedAt   time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// OrderUpdate is the profile delta applied when an order is placed.
type OrderUpdate struct {
	PointsEarned   int
	PointsRedeemed int
	Spent          float64
}
