package webhook

import (
	"testing"
	"time"

	"github.com/ManuelReschke/SubFox/app/models"
)

func TestClassifyEventName(t *testing.T) {
	tests := []struct {
		in   string
		want Class
	}{
		{in: "PAYMENT_CONFIRMED", want: ClassConfirmed},
		{in: "PAYMENT_RECEIVED", want: ClassConfirmed},
		{in: "PAYMENT_APPROVED", want: ClassConfirmed},
		{in: "SUBSCRIPTION_CREATED", want: ClassConfirmed},
		{in: "SUBSCRIPTION_ACTIVATED", want: ClassConfirmed},
		{in: "SUBSCRIPTION_RENEWED", want: ClassConfirmed},
		{in: "PAYMENT_OVERDUE", want: ClassCancelled},
		{in: "PAYMENT_CANCELED", want: ClassCancelled},
		{in: "PAYMENT_DELETED", want: ClassCancelled},
		{in: "PAYMENT_FAILED", want: ClassCancelled},
		{in: "PAYMENT_REFUNDED", want: ClassCancelled},
		{in: "SUBSCRIPTION_CANCELED", want: ClassCancelled},
		{in: "SUBSCRIPTION_CANCELLED", want: ClassCancelled},
		{in: "SUBSCRIPTION_DELETED", want: ClassCancelled},
		{in: "SUBSCRIPTION_EXPIRED", want: ClassCancelled},
		{in: "SUBSCRIPTION_INACTIVATED", want: ClassCancelled},
		{in: "SUBSCRIPTION_UPDATED", want: ClassInformational},
		{in: "PAYMENT_CREATED", want: ClassInformational},
		{in: "PAYMENT_SPLIT_CANCELLED", want: ClassInformational},
		{in: "payment_confirmed", want: ClassConfirmed},
		{in: " PAYMENT_CONFIRMED ", want: ClassConfirmed},
		{in: "SOMETHING_ELSE", want: ClassUnknown},
		{in: "", want: ClassUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyEventName(tt.in); got != tt.want {
			t.Fatalf("ClassifyEventName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComputeEndDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := &Event{Name: "PAYMENT_CONFIRMED", DueDate: &due}
	if got := ComputeEndDate(ev, now); !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected due date plus one year, got %v", got)
	}

	ev = &Event{Name: "PAYMENT_CONFIRMED"}
	if got := ComputeEndDate(ev, now); !got.Equal(now.AddDate(1, 0, 0)) {
		t.Fatalf("expected now plus one year when due date absent, got %v", got)
	}
}

func TestComputeEndDateIsPure(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := &Event{Name: "PAYMENT_CONFIRMED", DueDate: &due}

	first := ComputeEndDate(ev, now)
	second := ComputeEndDate(ev, now)
	if !first.Equal(second) {
		t.Fatalf("expected identical results for identical input, got %v and %v", first, second)
	}
	if !due.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("input due date was mutated: %v", due)
	}
}

func TestBuildUpdateConfirmed(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := &Event{Name: "PAYMENT_CONFIRMED", PaymentID: "pay_1", DueDate: &due}

	update, class := BuildUpdate(ev, now)
	if class != ClassConfirmed {
		t.Fatalf("expected confirmed class, got %q", class)
	}
	if update == nil {
		t.Fatalf("expected an update for confirmed event")
	}
	if update.Status != models.SUBSCRIPTION_PREMIUM {
		t.Fatalf("expected premium status, got %q", update.Status)
	}
	if update.SubscriptionID == nil || *update.SubscriptionID != "pay_1" {
		t.Fatalf("expected subscription id pay_1, got %v", update.SubscriptionID)
	}
	if update.EndDate == nil || !update.EndDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end date one year after due date, got %v", update.EndDate)
	}
}

func TestBuildUpdatePrefersSubscriptionID(t *testing.T) {
	ev := &Event{Name: "SUBSCRIPTION_RENEWED", PaymentID: "pay_1", SubscriptionID: "sub_9"}
	update, _ := BuildUpdate(ev, time.Now())
	if update.SubscriptionID == nil || *update.SubscriptionID != "sub_9" {
		t.Fatalf("expected subscription id sub_9, got %v", update.SubscriptionID)
	}
}

func TestBuildUpdateCancelled(t *testing.T) {
	for _, name := range []string{"PAYMENT_OVERDUE", "SUBSCRIPTION_EXPIRED", "SUBSCRIPTION_CANCELED"} {
		update, class := BuildUpdate(&Event{Name: name, PaymentID: "pay_1"}, time.Now())
		if class != ClassCancelled {
			t.Fatalf("expected cancelled class for %q, got %q", name, class)
		}
		if update.Status != models.SUBSCRIPTION_FREE {
			t.Fatalf("expected free status for %q, got %q", name, update.Status)
		}
		if update.EndDate != nil || update.SubscriptionID != nil {
			t.Fatalf("expected cleared end date and subscription id for %q", name)
		}
	}
}

func TestBuildUpdateNoOp(t *testing.T) {
	for _, name := range []string{"SUBSCRIPTION_UPDATED", "PAYMENT_CREATED", "TOTALLY_UNKNOWN"} {
		update, _ := BuildUpdate(&Event{Name: name}, time.Now())
		if update != nil {
			t.Fatalf("expected no update for %q, got %+v", name, update)
		}
	}
}
