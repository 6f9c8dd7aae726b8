package webhook

import (
	"errors"
	"testing"
	"time"
)

func TestParseGuruEvent(t *testing.T) {
	raw := []byte(`{
		"id": "guru_evt_1",
		"event": "SUBSCRIPTION_RENEWED",
		"data": {
			"customer": { "id": "gcus_1", "email": "Buyer@Example.com" },
			"subscription": { "id": "gsub_1", "next_cycle_at": "2024-05-01" }
		}
	}`)

	ev, err := ParseGuruEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Provider != ProviderGuru {
		t.Fatalf("unexpected provider %q", ev.Provider)
	}
	if ev.Email != "Buyer@Example.com" || ev.CustomerRef != "gcus_1" {
		t.Fatalf("unexpected customer: email=%q ref=%q", ev.Email, ev.CustomerRef)
	}
	if ev.SubscriptionID != "gsub_1" {
		t.Fatalf("unexpected subscription id %q", ev.SubscriptionID)
	}
	if ev.DueDate == nil || !ev.DueDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", ev.DueDate)
	}
}

func TestParseGuruEventPaymentOnly(t *testing.T) {
	raw := []byte(`{
		"event": "PAYMENT_CONFIRMED",
		"data": {
			"customer": { "email": "a@b.com" },
			"payment": { "id": "gpay_1", "due_date": "2024-04-01" }
		}
	}`)

	ev, err := ParseGuruEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.PaymentID != "gpay_1" {
		t.Fatalf("unexpected payment id %q", ev.PaymentID)
	}
	if ev.DueDate == nil || !ev.DueDate.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", ev.DueDate)
	}
}

func TestParseGuruEventInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing event", raw: `{"data": {"subscription": {"id": "s1"}}}`},
		{name: "missing data", raw: `{"event": "SUBSCRIPTION_RENEWED"}`},
		{name: "empty data", raw: `{"event": "SUBSCRIPTION_RENEWED", "data": {"customer": {"email": "a@b.com"}}}`},
		{name: "not json", raw: `<xml/>`},
	}

	for _, tt := range tests {
		if _, err := ParseGuruEvent([]byte(tt.raw)); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("%s: expected ErrInvalidPayload, got %v", tt.name, err)
		}
	}
}
