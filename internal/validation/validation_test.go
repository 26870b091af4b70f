package validation

import "testing"

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		Items: []Item{
			{ProductID: "p1", Name: "Pancakes", Quantity: 2, Price: 100},
			{ProductID: "p2", Name: "Espresso", Quantity: 1, Price: 50},
		},
		Total: 250,
	}
}

func TestCheckoutRequest_Valid(t *testing.T) {
	v := New()
	if err := v.Struct(validCheckout()); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestCheckoutRequest_TotalMustMatchItems(t *testing.T) {
	v := New()
	req := validCheckout()
	req.Total = 249
	if err := v.Struct(req); err == nil {
		t.Fatal("expected total_match_items failure")
	}
}

func TestCheckoutRequest_RequiresItems(t *testing.T) {
	v := New()
	req := validCheckout()
	req.Items = nil
	req.Total = 0
	if err := v.Struct(req); err == nil {
		t.Fatal("expected failure for empty items")
	}
}

func TestCheckoutRequest_RejectsZeroQuantity(t *testing.T) {
	v := New()
	req := validCheckout()
	req.Items[0].Quantity = 0
	if err := v.Struct(req); err == nil {
		t.Fatal("expected failure for zero quantity")
	}
}

func TestCheckoutRequest_RejectsNegativeRedemption(t *testing.T) {
	v := New()
	req := validCheckout()
	req.RedeemPoints = -5
	if err := v.Struct(req); err == nil {
		t.Fatal("expected failure for negative redeem_points")
	}
}

func TestCheckoutRequest_RejectsBadEmail(t *testing.T) {
	v := New()
	req := validCheckout()
	req.CustomerEmail = "not-an-email"
	if err := v.Struct(req); err == nil {
		t.Fatal("expected failure for malformed email")
	}
}

func TestOfflineOrderRequest_RequiresName(t *testing.T) {
	v := New()
	req := OfflineOrderRequest{
		Items: []Item{{ProductID: "p1", Name: "Espresso", Quantity: 1, Price: 80}},
		Total: 80,
	}
	if err := v.Struct(req); err == nil {
		t.Fatal("expected failure for missing customer name")
	}
	req.CustomerName = "Walk-up"
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid offline order, got %v", err)
	}
}

func TestOfflineOrderRequest_TotalMustMatchItems(t *testing.T) {
	v := New()
	req := OfflineOrderRequest{
		CustomerName: "Walk-up",
		Items:        []Item{{ProductID: "p1", Name: "Espresso", Quantity: 2, Price: 80}},
		Total:        100,
	}
	if err := v.Struct(req); err == nil {
		t.Fatal("expected total_match_items failure")
	}
}

func TestProductRequest(t *testing.T) {
	v := New()
	req := ProductRequest{Name: "Espresso", Price: 80, Category: "coffee"}
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}
	req.Name = ""
	if err := v.Struct(req); err == nil {
		t.Fatal("expected failure for missing name")
	}
}

func TestStatusUpdateRequest(t *testing.T) {
	v := New()
	if err := v.Struct(StatusUpdateRequest{}); err == nil {
		t.Fatal("expected failure for missing status")
	}
	if err := v.Struct(StatusUpdateRequest{Status: "confirmed"}); err != nil {
		t.Fatalf("expected valid status update, got %v", err)
	}
}

func TestRazorpayOrderRequest(t *testing.T) {
	v := New()
	if err := v.Struct(RazorpayOrderRequest{Amount: 240}); err != nil {
		t.Fatalf("expected valid payment request, got %v", err)
	}
	if err := v.Struct(RazorpayOrderRequest{Amount: 0}); err == nil {
		t.Fatal("expected failure for zero amount")
	}
}
