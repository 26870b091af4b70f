package payments

import (
	"errors"
	"testing"
)

type fakeOrders struct {
	lastData map[string]interface{}
	resp     map[string]interface{}
	err      error
}

func (f *fakeOrders) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	f.lastData = data
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestCreateOrder_ConvertsToPaise(t *testing.T) {
	fake := &fakeOrders{resp: map[string]interface{}{"id": "order_abc"}}
	s := &Service{orders: fake, keyID: "rzp_test_key", enabled: true}

	created, err := s.CreateOrder(240.50, "CS-042")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if got := fake.lastData["amount"]; got != int64(24050) {
		t.Fatalf("amount sent = %v, want 24050 paise", got)
	}
	if fake.lastData["currency"] != "INR" {
		t.Fatalf("currency sent = %v", fake.lastData["currency"])
	}
	if fake.lastData["receipt"] != "CS-042" {
		t.Fatalf("receipt sent = %v", fake.lastData["receipt"])
	}
	if created.ID != "order_abc" || created.KeyID != "rzp_test_key" || created.Amount != 24050 {
		t.Fatalf("unexpected created order: %+v", created)
	}
}

func TestCreateOrder_RejectsNonPositiveAmount(t *testing.T) {
	s := &Service{orders: &fakeOrders{}, enabled: true}
	if _, err := s.CreateOrder(0, ""); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if _, err := s.CreateOrder(-5, ""); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestCreateOrder_SDKError(t *testing.T) {
	s := &Service{orders: &fakeOrders{err: errors.New("gateway down")}, enabled: true}
	if _, err := s.CreateOrder(100, "CS-001"); err == nil {
		t.Fatal("expected error from the SDK")
	}
}

func TestCreateOrder_MissingID(t *testing.T) {
	s := &Service{orders: &fakeOrders{resp: map[string]interface{}{}}, enabled: true}
	if _, err := s.CreateOrder(100, "CS-001"); err == nil {
		t.Fatal("expected error when the response has no order id")
	}
}

func TestNew_DisabledWithoutCredentials(t *testing.T) {
	s := New("", "")
	if s.Enabled() {
		t.Fatal("service must be disabled without credentials")
	}
	if _, err := s.CreateOrder(100, ""); err == nil {
		t.Fatal("expected error when disabled")
	}
}
