package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseAsaasEventPayment(t *testing.T) {
	raw := []byte(`{
		"id": "evt_1",
		"event": "PAYMENT_CONFIRMED",
		"payment": { "id": "pay_1", "customer": "cus_1", "dueDate": "2024-01-01" }
	}`)

	ev, err := ParseAsaasEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Provider != ProviderAsaas {
		t.Fatalf("unexpected provider %q", ev.Provider)
	}
	if ev.Name != "PAYMENT_CONFIRMED" || ev.EventID != "evt_1" {
		t.Fatalf("unexpected event: name=%q id=%q", ev.Name, ev.EventID)
	}
	if ev.PaymentID != "pay_1" || ev.CustomerRef != "cus_1" {
		t.Fatalf("unexpected ids: payment=%q customer=%q", ev.PaymentID, ev.CustomerRef)
	}
	if ev.DueDate == nil || !ev.DueDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", ev.DueDate)
	}
}

func TestParseAsaasEventSubscription(t *testing.T) {
	raw := []byte(`{
		"event": "SUBSCRIPTION_ACTIVATED",
		"subscription": { "id": "sub_1", "customer": "cus_2", "nextDueDate": "2024-03-15" },
		"customer": { "id": "cus_2", "email": "User@Example.com" }
	}`)

	ev, err := ParseAsaasEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.SubscriptionID != "sub_1" || ev.CustomerRef != "cus_2" {
		t.Fatalf("unexpected ids: subscription=%q customer=%q", ev.SubscriptionID, ev.CustomerRef)
	}
	if ev.Email != "User@Example.com" {
		t.Fatalf("expected inline customer email, got %q", ev.Email)
	}
}

func TestParseAsaasEventNextDueDateWins(t *testing.T) {
	raw := []byte(`{
		"event": "PAYMENT_CONFIRMED",
		"payment": { "id": "pay_1", "dueDate": "2024-01-01" },
		"subscription": { "id": "sub_1", "nextDueDate": "2024-02-01" }
	}`)

	ev, err := ParseAsaasEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.DueDate == nil || !ev.DueDate.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected nextDueDate to win, got %v", ev.DueDate)
	}
}

func TestParseAsaasEventExternalReferenceEmail(t *testing.T) {
	raw := []byte(`{
		"event": "PAYMENT_CONFIRMED",
		"payment": { "id": "pay_1", "customer": "cus_1", "externalReference": "buyer@shop.com" }
	}`)

	ev, err := ParseAsaasEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Email != "buyer@shop.com" {
		t.Fatalf("expected external reference email, got %q", ev.Email)
	}

	// A non-email reference must not be mistaken for one.
	raw = []byte(`{
		"event": "PAYMENT_CONFIRMED",
		"payment": { "id": "pay_1", "customer": "cus_1", "externalReference": "order-42" }
	}`)
	ev, err = ParseAsaasEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Email != "" {
		t.Fatalf("expected empty email for non-email reference, got %q", ev.Email)
	}
}

func TestParseAsaasEventInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing event", raw: `{"payment": {"id": "pay_1"}}`},
		{name: "no payment or subscription", raw: `{"event": "PAYMENT_CONFIRMED"}`},
		{name: "not json", raw: `not json`},
	}

	for _, tt := range tests {
		if _, err := ParseAsaasEvent([]byte(tt.raw)); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("%s: expected ErrInvalidPayload, got %v", tt.name, err)
		}
	}
}

func TestAsaasClientGetCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("access_token") != "key_123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/customers/cus_1":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"cus_1","email":"a@b.com","name":"A","phone":"123"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := &AsaasClient{
		APIKey:     "key_123",
		APIBaseURL: srv.URL,
		HTTPClient: srv.Client(),
	}

	customer, err := client.GetCustomer(context.Background(), "cus_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.Email != "a@b.com" || customer.Name != "A" {
		t.Fatalf("unexpected customer: %+v", customer)
	}

	if _, err := client.GetCustomer(context.Background(), "cus_missing"); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	if _, err := client.GetCustomer(context.Background(), ""); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound for empty id, got %v", err)
	}
}
