package webhook

import "time"

const (
	ProviderAsaas = "asaas"
	ProviderGuru  = "guru"
)

// Event is the provider-agnostic shape every inbound webhook payload is
// normalized into before classification.
type Event struct {
	Provider       string
	Name           string
	EventID        string
	Email          string
	CustomerRef    string
	PaymentID      string
	SubscriptionID string
	DueDate        *time.Time
}

// SubscriptionUpdate carries the three user fields replaced together by
// one store write.
type SubscriptionUpdate struct {
	Status         string
	EndDate        *time.Time
	SubscriptionID *string
}

// Customer is the contact record returned by a provider customer lookup.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
