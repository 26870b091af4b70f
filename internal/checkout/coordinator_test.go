package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/imrishuroy/go-storefront/internal/loyalty"
	"github.com/imrishuroy/go-storefront/internal/notify"
	"github.com/imrishuroy/go-storefront/internal/orders"
)

// fakeLedger is an in-memory Ledger for coordinator tests.
type fakeLedger struct {
	mu       sync.Mutex
	path     string
	down     bool // every call fails, simulating an unreachable store
	counter  int
	profiles map[string]*loyalty.Profile
	orders   []*orders.Order
}

func newFakeLedger(path string) *fakeLedger {
	return &fakeLedger{path: path, profiles: map[string]*loyalty.Profile{}}
}

var errDown = errors.New("store unreachable")

func (f *fakeLedger) Path() string { return f.path }

func (f *fakeLedger) GetOrCreateProfile(ctx context.Context, userID, email, name string) (*loyalty.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errDown
	}
	if p, ok := f.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	p := &loyalty.Profile{UserID: userID, Email: email, Name: name}
	f.profiles[userID] = p
	copied := *p
	return &copied, nil
}

func (f *fakeLedger) NextOrderNumber(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return "", errDown
	}
	f.counter++
	return fmt.Sprintf("CS-%03d", f.counter), nil
}

func (f *fakeLedger) CreateOrder(ctx context.Context, order *orders.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errDown
	}
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeLedger) ApplyProfileUpdate(ctx context.Context, userID string, upd loyalty.OrderUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errDown
	}
	p, ok := f.profiles[userID]
	if !ok {
		return loyalty.ErrNotFound
	}
	if upd.PointsRedeemed > p.Points {
		return loyalty.ErrInsufficientPoints
	}
	p.Points += upd.PointsEarned - upd.PointsRedeemed
	p.TotalOrders++
	p.TotalSpent += upd.Spent
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	sent     []notify.OrderEmail
	failWith error
}

func (n *fakeNotifier) OrderPlaced(ctx context.Context, email notify.OrderEmail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failWith != nil {
		return n.failWith
	}
	n.sent = append(n.sent, email)
	return nil
}

func cart() []orders.Item {
	return []orders.Item{
		{ProductID: "p1", Name: "Pancakes", Price: 100, Quantity: 2},
		{ProductID: "p2", Name: "Espresso", Price: 50, Quantity: 1},
	}
}

func TestPlaceOrder_NoRedemption(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	c := New(primary, nil, nil, nil)

	res, err := c.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1",
		Items:  cart(),
		Total:  250,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if res.Order.OrderNumber != "CS-001" {
		t.Fatalf("order number = %s", res.Order.OrderNumber)
	}
	if res.Order.Total != 250 {
		t.Fatalf("total = %v, want 250", res.Order.Total)
	}
	if res.Order.PointsEarned != 25 {
		t.Fatalf("earned = %d, want 25", res.Order.PointsEarned)
	}
	if res.Order.Status != orders.StatusPending {
		t.Fatalf("status = %s", res.Order.Status)
	}
	if res.Profile.Points != 25 || res.Profile.TotalOrders != 1 || res.Profile.TotalSpent != 250 {
		t.Fatalf("profile after order: %+v", res.Profile)
	}
}

func TestPlaceOrder_RedeemsClampedPoints(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	primary.profiles["u1"] = &loyalty.Profile{UserID: "u1", Points: 120}
	c := New(primary, nil, nil, nil)

	res, err := c.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:          "u1",
		Items:           cart(),
		Total:           250,
		RequestedPoints: 100,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if res.Order.PointsUsed != 100 {
		t.Fatalf("redeemed = %d, want 100", res.Order.PointsUsed)
	}
	if res.Order.Total != 240 { // 250 - floor(100/10)
		t.Fatalf("total = %v, want 240", res.Order.Total)
	}
	if res.Order.PointsEarned != 24 {
		t.Fatalf("earned = %d, want 24", res.Order.PointsEarned)
	}
	if res.Profile.Points != 44 { // 120 + 24 - 100
		t.Fatalf("points = %d, want 44", res.Profile.Points)
	}
}

func TestPlaceOrder_RedemptionNeverExceedsBalance(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	primary.profiles["u1"] = &loyalty.Profile{UserID: "u1", Points: 30}
	c := New(primary, nil, nil, nil)

	res, err := c.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:          "u1",
		Items:           cart(),
		Total:           250,
		RequestedPoints: 500,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if res.Order.PointsUsed != 30 {
		t.Fatalf("redeemed = %d, want 30", res.Order.PointsUsed)
	}
	if res.Order.Total != 247 { // discount floor(30/10) = 3
		t.Fatalf("total = %v, want 247", res.Order.Total)
	}
	if res.Profile.Points < 0 {
		t.Fatalf("points went negative: %d", res.Profile.Points)
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	c := New(newFakeLedger(orders.StorePathPrimary), nil, nil, nil)
	ctx := context.Background()

	cases := []PlaceOrderInput{
		{UserID: "u1", Items: nil, Total: 10},
		{UserID: "u1", Items: []orders.Item{{ProductID: "p1", Price: 10, Quantity: 0}}, Total: 0},
		{UserID: "u1", Items: []orders.Item{{ProductID: "p1", Price: -1, Quantity: 1}}, Total: 0},
		{UserID: "u1", Items: cart(), Total: 250, RequestedPoints: -1},
		{UserID: "", Items: cart(), Total: 250}, // owner required unless offline
	}
	for i, in := range cases {
		if _, err := c.PlaceOrder(ctx, in); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("case %d: expected ErrInvalidOrder, got %v", i, err)
		}
	}
}

func TestPlaceOrder_FallsBackWhenPrimaryDown(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	primary.down = true
	fallback := newFakeLedger(orders.StorePathFallback)
	c := New(primary, fallback, nil, nil)

	res, err := c.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1",
		Items:  cart(),
		Total:  250,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if res.Order.StorePath != orders.StorePathFallback {
		t.Fatalf("store path = %s, want fallback", res.Order.StorePath)
	}
	if len(fallback.orders) != 1 || len(primary.orders) != 0 {
		t.Fatal("order must land on the fallback ledger only")
	}
}

func TestPlaceOrder_FailsWhenBothPathsDown(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	primary.down = true
	fallback := newFakeLedger(orders.StorePathFallback)
	fallback.down = true
	c := New(primary, fallback, nil, nil)

	if _, err := c.PlaceOrder(context.Background(), PlaceOrderInput{UserID: "u1", Items: cart(), Total: 250}); err == nil {
		t.Fatal("expected error when both persistence paths fail")
	}
}

func TestPlaceOrder_ValidationSkipsFallback(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	fallback := newFakeLedger(orders.StorePathFallback)
	c := New(primary, fallback, nil, nil)

	_, err := c.PlaceOrder(context.Background(), PlaceOrderInput{UserID: "u1", Items: nil, Total: 10})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
	if len(fallback.orders) != 0 {
		t.Fatal("validation failures must not reach the fallback store")
	}
}

func TestPlaceOrder_SendsConfirmation(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	notifier := &fakeNotifier{}
	c := New(primary, nil, notifier, nil)

	_, err := c.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        "u1",
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		Items:         cart(),
		Total:         250,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(notifier.sent))
	}
	if notifier.sent[0].OrderNumber != "CS-001" || notifier.sent[0].Total != 250 {
		t.Fatalf("unexpected email: %+v", notifier.sent[0])
	}
}

func TestPlaceOrder_EmailFailureDoesNotFailOrder(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	notifier := &fakeNotifier{failWith: errors.New("smtp down")}
	c := New(primary, nil, notifier, nil)

	res, err := c.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        "u1",
		CustomerEmail: "asha@example.com",
		Items:         cart(),
		Total:         250,
	})
	if err != nil {
		t.Fatalf("order must survive a notification failure: %v", err)
	}
	if res.Order.OrderNumber == "" {
		t.Fatal("expected an order number")
	}
}

func TestPlaceOrder_Offline(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	c := New(primary, nil, nil, nil)

	res, err := c.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerName:  "Walk-up",
		CustomerPhone: "9999999999",
		Items:         cart(),
		Total:         250,
		Offline:       true,
	})
	if err != nil {
		t.Fatalf("offline order: %v", err)
	}
	if !res.Order.Offline || res.Order.UserID != "" {
		t.Fatalf("unexpected offline order: %+v", res.Order)
	}
	if res.Order.PointsUsed != 0 {
		t.Fatal("offline orders cannot redeem points")
	}
	if res.Order.PointsEarned != 25 { // still recorded on the order
		t.Fatalf("earned = %d", res.Order.PointsEarned)
	}
	if res.Profile != nil {
		t.Fatal("offline orders have no profile")
	}
	if len(primary.profiles) != 0 {
		t.Fatal("offline order must not create a profile")
	}
}

func TestPlaceOrder_ConcurrentOrderNumbersDistinct(t *testing.T) {
	primary := newFakeLedger(orders.StorePathPrimary)
	c := New(primary, nil, nil, nil)
	ctx := context.Background()

	const n = 20
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.PlaceOrder(ctx, PlaceOrderInput{
				UserID: fmt.Sprintf("u%d", i),
				Items:  cart(),
				Total:  250,
			})
			if err != nil {
				t.Errorf("place order: %v", err)
				return
			}
			numbers <- res.Order.OrderNumber
		}(i)
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		if seen[num] {
			t.Fatalf("duplicate order number %s", num)
		}
		seen[num] = true
	}
}
