package catalog

import (
	"context"
	"fmt"
	"log"
)

// DefaultMenu is the starter menu inserted into an empty products table.
var DefaultMenu = []NewProduct{
	{Name: "Classic Espresso", Description: "Rich, bold espresso shot", Price: 80, Category: CategoryCoffee},
	{Name: "Cappuccino", Description: "Creamy espresso with steamed milk", Price: 100, Category: CategoryCoffee},
	{Name: "Vanilla Latte", Description: "Smooth latte with vanilla syrup", Price: 120, Category: CategoryCoffee},
	{Name: "Fresh Iced Tea", Description: "Refreshing cold brew tea", Price: 70, Category: CategoryCoffee},
	{Name: "Breakfast Sandwich", Description: "Egg, cheese & bacon on brioche", Price: 150, Category: CategoryBreakfast},
	{Name: "Fluffy Pancakes", Description: "Three pancakes with syrup", Price: 180, Category: CategoryBreakfast},
	{Name: "Butter Croissant", Description: "Flaky, buttery French pastry", Price: 90, Category: CategoryPastries},
	{Name: "Chocolate Muffin", Description: "Rich chocolate chip muffin", Price: 110, Category: CategoryPastries},
	{Name: "Glazed Donut", Description: "Classic glazed with sprinkles", Price: 60, Category: CategoryPastries},
	{Name: "Cinnamon Roll", Description: "Warm roll with cinnamon glaze", Price: 100, Category: CategoryPastries},
}

// Seed inserts the given products if the table is currently empty. A menu
// whose products were all soft-deleted counts as non-empty: the operator
// removed them on purpose.
func (s *Store) Seed(ctx context.Context, products []NewProduct) error {
	populated, err := s.hasAny(ctx)
	if err != nil {
		return fmt.Errorf("check existing products: %w", err)
	}
	if populated {
		return nil
	}
	for _, np := range products {
		if _, err := s.Create(ctx, np); err != nil {
			return fmt.Errorf("seed product %q: %w", np.Name, err)
		}
	}
	log.Printf("seeded %d products", len(products))
	return nil
}
