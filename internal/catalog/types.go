package catalog

import "time"

// Product categories shown on the storefront menu.
const (
	CategoryCoffee    = "coffee"
	CategoryBreakfast = "breakfast"
	CategoryPastries  = "pastries"
	CategoryOther     = "other"
)

// ValidCategory reports whether c is one of the known menu categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryCoffee, CategoryBreakfast, CategoryPastries, CategoryOther:
		return true
	}
	return false
}

// Product is the item stored in the products DynamoDB table.
// Soft-deleted products stay in the table with Available=false so historical
// order lines keep a valid reference.
type Product struct {
	ProductID   string    `dynamodbav:"product_id" json:"product_id"` // PK
	Name        string    `dynamodbav:"name" json:"name"`
	Description string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Price       float64   `dynamodbav:"price" json:"price"`
	Category    string    `dynamodbav:"category" json:"category"`
	ImageURL    string    `dynamodbav:"image_url,omitempty" json:"image_url,omitempty"`
	Available   bool      `dynamodbav:"available" json:"available"`
	CreatedAt   time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// NewProduct carries the caller-supplied fields for Create.
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
}

// ProductPatch carries optional fields for Update; nil means "leave as is".
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
	Available   *bool
}
