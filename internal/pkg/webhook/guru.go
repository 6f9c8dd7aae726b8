package webhook

import (
	"encoding/json"
	"strings"
)

// ParseGuruEvent normalizes a Digital Guru webhook payload
// ({event, data:{customer, subscription, payment}}) into an Event.
// Guru payloads carry the customer email inline, so processing them
// normally needs no customer lookup.
func ParseGuruEvent(payload []byte) (*Event, error) {
	type rawPayload struct {
		ID    string `json:"id"`
		Event string `json:"event"`
		Data  *struct {
			Customer *struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"customer"`
			Subscription *struct {
				ID           string `json:"id"`
				Customer     string `json:"customer"`
				NextCycleAt  string `json:"next_cycle_at"`
				ChargedEvery int    `json:"charged_every"`
			} `json:"subscription"`
			Payment *struct {
				ID      string `json:"id"`
				DueDate string `json:"due_date"`
			} `json:"payment"`
		} `json:"data"`
	}

	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, ErrInvalidPayload
	}
	if strings.TrimSpace(raw.Event) == "" {
		return nil, ErrInvalidPayload
	}
	if raw.Data == nil || (raw.Data.Subscription == nil && raw.Data.Payment == nil) {
		return nil, ErrInvalidPayload
	}

	out := &Event{
		Provider: ProviderGuru,
		Name:     strings.TrimSpace(raw.Event),
		EventID:  strings.TrimSpace(raw.ID),
	}

	if raw.Data.Customer != nil {
		out.Email = strings.TrimSpace(raw.Data.Customer.Email)
		out.CustomerRef = strings.TrimSpace(raw.Data.Customer.ID)
	}
	if raw.Data.Payment != nil {
		out.PaymentID = strings.TrimSpace(raw.Data.Payment.ID)
		out.DueDate = parseProviderDate(raw.Data.Payment.DueDate)
	}
	if raw.Data.Subscription != nil {
		out.SubscriptionID = strings.TrimSpace(raw.Data.Subscription.ID)
		if out.CustomerRef == "" {
			out.CustomerRef = strings.TrimSpace(raw.Data.Subscription.Customer)
		}
		if d := parseProviderDate(raw.Data.Subscription.NextCycleAt); d != nil {
			out.DueDate = d
		}
	}

	return out, nil
}
