// Package checkout turns a validated cart plus an optional points redemption
// into a persisted order and an updated loyalty profile.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/imrishuroy/go-storefront/internal/loyalty"
	"github.com/imrishuroy/go-storefront/internal/notify"
	"github.com/imrishuroy/go-storefront/internal/orders"
)

// ErrInvalidOrder indicates the request failed validation before any
// persistence was attempted.
var ErrInvalidOrder = errors.New("invalid order")

// Ledger is one persistence path for the order/loyalty sequence. The primary
// implementation writes to DynamoDB; the fallback writes to a local rqlite
// node. The two are never reconciled automatically.
type Ledger interface {
	// Path names the store for the order's store_path field.
	Path() string
	GetOrCreateProfile(ctx context.Context, userID, email, name string) (*loyalty.Profile, error)
	NextOrderNumber(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, order *orders.Order) error
	ApplyProfileUpdate(ctx context.Context, userID string, upd loyalty.OrderUpdate) error
}

// Notifier delivers the order confirmation. Failures are logged, never
// surfaced to the customer.
type Notifier interface {
	OrderPlaced(ctx context.Context, email notify.OrderEmail) error
}

// Metrics receives business metrics for placed orders.
type Metrics interface {
	RecordOrderPlaced(ctx context.Context, storePath string, total float64)
	RecordFallbackUsed(ctx context.Context)
}

// Coordinator orchestrates order placement across the primary and fallback
// ledgers.
type Coordinator struct {
	primary  Ledger
	fallback Ledger // nil when no fallback is configured
	notifier Notifier
	metrics  Metrics
	newID    func() string
	nowFunc  func() time.Time
}

// New creates a Coordinator. fallback, notifier and metrics may be nil.
func New(primary, fallback Ledger, notifier Notifier, metrics Metrics) *Coordinator {
	return &Coordinator{
		primary:  primary,
		fallback: fallback,
		notifier: notifier,
		metrics:  metrics,
		newID:    uuid.NewString,
		nowFunc:  time.Now,
	}
}

// PlaceOrderInput is a validated cart ready for persistence. Total is the
// caller's pre-redemption total: any promotional discount or tax layering
// happens before the coordinator is invoked.
type PlaceOrderInput struct {
	UserID          string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	Items           []orders.Item
	Total           float64
	RequestedPoints int
	Offline         bool // staff-entered order with no owner account
}

// PlaceOrderResult reports the persisted order and, for owned orders, the
// profile state after the update.
type PlaceOrderResult struct {
	Order   *orders.Order
	Profile *loyalty.Profile
}

// PlaceOrder validates the input, then runs the persistence sequence (assign
// order number, write order, apply profile delta) against the primary ledger,
// falling back to the local ledger if the primary is unreachable. On success
// it fires the confirmation email and returns the assigned order number on
// the result's order.
func (c *Coordinator) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if err := c.validate(in); err != nil {
		return nil, err
	}

	res, err := c.placeOn(ctx, c.primary, in)
	if err != nil && c.fallback != nil && !errors.Is(err, ErrInvalidOrder) && !errors.Is(err, loyalty.ErrInsufficientPoints) {
		log.Printf("primary store failed, using local fallback: %v", err)
		if c.metrics != nil {
			c.metrics.RecordFallbackUsed(ctx)
		}
		res, err = c.placeOn(ctx, c.fallback, in)
	}
	if err != nil {
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.RecordOrderPlaced(ctx, res.Order.StorePath, res.Order.Total)
	}

	// best-effort confirmation; an email failure never rolls back the order
	if c.notifier != nil && in.CustomerEmail != "" {
		email := notify.OrderEmail{
			OrderNumber:   res.Order.OrderNumber,
			CustomerName:  in.CustomerName,
			CustomerEmail: in.CustomerEmail,
			Items:         res.Order.Items,
			Total:         res.Order.Total,
			PointsEarned:  res.Order.PointsEarned,
			PointsUsed:    res.Order.PointsUsed,
		}
		if err := c.notifier.OrderPlaced(ctx, email); err != nil {
			log.Printf("order %s: confirmation email not sent: %v", res.Order.OrderNumber, err)
		}
	}

	return res, nil
}

func (c *Coordinator) validate(in PlaceOrderInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", ErrInvalidOrder)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %s has non-positive quantity", ErrInvalidOrder, item.ProductID)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: item %s has negative price", ErrInvalidOrder, item.ProductID)
		}
	}
	if in.Total < 0 {
		return fmt.Errorf("%w: negative total", ErrInvalidOrder)
	}
	if in.RequestedPoints < 0 {
		return fmt.Errorf("%w: negative points redemption", ErrInvalidOrder)
	}
	if !in.Offline && in.UserID == "" {
		return fmt.Errorf("%w: missing owner", ErrInvalidOrder)
	}
	return nil
}

func (c *Coordinator) placeOn(ctx context.Context, ledger Ledger, in PlaceOrderInput) (*PlaceOrderResult, error) {
	var profile *loyalty.Profile
	redeemed := 0

	if !in.Offline {
		var err error
		profile, err = ledger.GetOrCreateProfile(ctx, in.UserID, in.CustomerEmail, in.CustomerName)
		if err != nil {
			return nil, fmt.Errorf("resolve profile: %w", err)
		}
		redeemed = loyalty.ClampRedemption(in.RequestedPoints, profile.Points)
	}

	finalTotal := loyalty.FinalTotal(in.Total, redeemed)
	earned := loyalty.Earned(finalTotal)

	number, err := ledger.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign order number: %w", err)
	}

	now := c.nowFunc()
	order := &orders.Order{
		OrderID:       c.newID(),
		OrderNumber:   number,
		UserID:        in.UserID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Items:         in.Items,
		Total:         finalTotal,
		Status:        orders.StatusPending,
		PointsEarned:  earned,
		PointsUsed:    redeemed,
		Offline:       in.Offline,
		StorePath:     ledger.Path(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := ledger.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if !in.Offline {
		upd := loyalty.OrderUpdate{
			PointsEarned:   earned,
			PointsRedeemed: redeemed,
			Spent:          finalTotal,
		}
		if err := ledger.ApplyProfileUpdate(ctx, in.UserID, upd); err != nil {
			// A concurrent order can shrink the balance between our read and
			// the conditional write. No silent re-clamp: surface it and let
			// the caller retry.
			return nil, fmt.Errorf("update profile for order %s: %w", number, err)
		}
		profile.Points += earned - redeemed
		profile.TotalOrders++
		profile.TotalSpent += finalTotal
	}

	return &PlaceOrderResult{Order: order, Profile: profile}, nil
}
