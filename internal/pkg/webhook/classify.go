package webhook

import (
	"strings"
	"time"

	"github.com/ManuelReschke/SubFox/app/models"
)

// Class groups provider event names by their subscription-state outcome.
type Class string

const (
	ClassConfirmed     Class = "confirmed"
	ClassCancelled     Class = "cancelled"
	ClassInformational Class = "informational"
	ClassUnknown       Class = "unknown"
)

// ClassifyEventName maps a provider event name onto its event class.
func ClassifyEventName(name string) Class {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "PAYMENT_CONFIRMED", "PAYMENT_RECEIVED", "PAYMENT_APPROVED",
		"SUBSCRIPTION_CREATED", "SUBSCRIPTION_ACTIVATED", "SUBSCRIPTION_RENEWED":
		return ClassConfirmed
	case "PAYMENT_OVERDUE", "PAYMENT_CANCELED", "PAYMENT_DELETED",
		"PAYMENT_FAILED", "PAYMENT_REFUNDED",
		"SUBSCRIPTION_CANCELED", "SUBSCRIPTION_CANCELLED", "SUBSCRIPTION_DELETED",
		"SUBSCRIPTION_EXPIRED", "SUBSCRIPTION_INACTIVATED":
		return ClassCancelled
	case "SUBSCRIPTION_UPDATED", "PAYMENT_CREATED", "PAYMENT_UPDATED",
		"PAYMENT_SPLIT_CANCELLED", "PAYMENT_SPLIT_DIVERGENCE_BLOCK",
		"PAYMENT_SPLIT_DIVERGENCE_BLOCK_FINISHED":
		return ClassInformational
	default:
		return ClassUnknown
	}
}

// ComputeEndDate returns the subscription end date for a confirmed event:
// the provider due date (falling back to now when absent) plus exactly one
// calendar year. The result depends only on the event, never on prior
// user state.
func ComputeEndDate(ev *Event, now time.Time) time.Time {
	base := now
	if ev.DueDate != nil {
		base = *ev.DueDate
	}
	return base.AddDate(1, 0, 0)
}

// BuildUpdate classifies the event and derives the resulting state write.
// Informational and unrecognized events yield a nil update.
func BuildUpdate(ev *Event, now time.Time) (*SubscriptionUpdate, Class) {
	class := ClassifyEventName(ev.Name)
	switch class {
	case ClassConfirmed:
		end := ComputeEndDate(ev, now)
		id := ev.SubscriptionID
		if id == "" {
			id = ev.PaymentID
		}
		var idPtr *string
		if id != "" {
			idPtr = &id
		}
		return &SubscriptionUpdate{
			Status:         models.SUBSCRIPTION_PREMIUM,
			EndDate:        &end,
			SubscriptionID: idPtr,
		}, class
	case ClassCancelled:
		return &SubscriptionUpdate{
			Status:         models.SUBSCRIPTION_FREE,
			EndDate:        nil,
			SubscriptionID: nil,
		}, class
	default:
		return nil, class
	}
}
