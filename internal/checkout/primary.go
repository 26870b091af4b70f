package checkout

import (
	"context"

	"github.com/imrishuroy/go-storefront/internal/loyalty"
	"github.com/imrishuroy/go-storefront/internal/ordernum"
	"github.com/imrishuroy/go-storefront/internal/orders"
)

// DynamoLedger is the primary persistence path, composed from the DynamoDB
// stores.
type DynamoLedger struct {
	Profiles *loyalty.Store
	Orders   *orders.Store
	Numbers  *ordernum.Generator
}

// NewDynamoLedger bundles the DynamoDB-backed stores into a Ledger.
func NewDynamoLedger(profiles *loyalty.Store, orderStore *orders.Store, numbers *ordernum.Generator) *DynamoLedger {
	return &DynamoLedger{Profiles: profiles, Orders: orderStore, Numbers: numbers}
}

func (l *DynamoLedger) Path() string { return orders.StorePathPrimary }

func (l *DynamoLedger) GetOrCreateProfile(ctx context.Context, userID, email, name string) (*loyalty.Profile, error) {
	return l.Profiles.GetOrCreate(ctx, userID, email, name)
}

func (l *DynamoLedger) NextOrderNumber(ctx context.Context) (string, error) {
	return l.Numbers.Next(ctx)
}

func (l *DynamoLedger) CreateOrder(ctx context.Context, order *orders.Order) error {
	return l.Orders.Create(ctx, order)
}

func (l *DynamoLedger) ApplyProfileUpdate(ctx context.Context, userID string, upd loyalty.OrderUpdate) error {
	return l.Profiles.ApplyOrder(ctx, userID, upd)
}
