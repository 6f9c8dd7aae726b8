package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ManuelReschke/SubFox/internal/pkg/env"
)

const defaultAsaasAPIBaseURL = "https://api.asaas.com/v3"

// AsaasClient resolves Asaas customer ids to contact details via the
// provider REST API.
type AsaasClient struct {
	APIKey     string
	APIBaseURL string

	HTTPClient *http.Client
}

func NewAsaasClientFromEnv() *AsaasClient {
	return &AsaasClient{
		APIKey:     strings.TrimSpace(env.GetEnv("ASAAS_API_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("ASAAS_API_URL", defaultAsaasAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetCustomer fetches a customer record by its Asaas id. A 404 response
// maps to ErrCustomerNotFound.
func (c *AsaasClient) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	id := strings.TrimSpace(customerID)
	if id == "" {
		return nil, ErrCustomerNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/customers/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("access_token", c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCustomerNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("asaas customer request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Customer
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Email) == "" {
		return nil, ErrCustomerNotFound
	}
	return &out, nil
}

// ParseAsaasEvent normalizes an Asaas webhook payload
// ({event, payment, subscription, customer}) into an Event.
func ParseAsaasEvent(payload []byte) (*Event, error) {
	type rawPayload struct {
		ID      string `json:"id"`
		Event   string `json:"event"`
		Payment *struct {
			ID                string `json:"id"`
			Customer          string `json:"customer"`
			DueDate           string `json:"dueDate"`
			ExternalReference string `json:"externalReference"`
		} `json:"payment"`
		Subscription *struct {
			ID                string `json:"id"`
			Customer          string `json:"customer"`
			NextDueDate       string `json:"nextDueDate"`
			ExternalReference string `json:"externalReference"`
		} `json:"subscription"`
		Customer *struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"customer"`
	}

	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, ErrInvalidPayload
	}
	if strings.TrimSpace(raw.Event) == "" {
		return nil, ErrInvalidPayload
	}
	if raw.Payment == nil && raw.Subscription == nil {
		return nil, ErrInvalidPayload
	}

	out := &Event{
		Provider: ProviderAsaas,
		Name:     strings.TrimSpace(raw.Event),
		EventID:  strings.TrimSpace(raw.ID),
	}

	if raw.Customer != nil {
		out.Email = strings.TrimSpace(raw.Customer.Email)
	}
	if raw.Payment != nil {
		out.PaymentID = strings.TrimSpace(raw.Payment.ID)
		out.CustomerRef = strings.TrimSpace(raw.Payment.Customer)
		out.DueDate = parseProviderDate(raw.Payment.DueDate)
		if out.Email == "" && looksLikeEmail(raw.Payment.ExternalReference) {
			out.Email = strings.TrimSpace(raw.Payment.ExternalReference)
		}
	}
	if raw.Subscription != nil {
		out.SubscriptionID = strings.TrimSpace(raw.Subscription.ID)
		if out.CustomerRef == "" {
			out.CustomerRef = strings.TrimSpace(raw.Subscription.Customer)
		}
		// Subscription cycle dates take precedence over single payment due dates.
		if d := parseProviderDate(raw.Subscription.NextDueDate); d != nil {
			out.DueDate = d
		}
		if out.Email == "" && looksLikeEmail(raw.Subscription.ExternalReference) {
			out.Email = strings.TrimSpace(raw.Subscription.ExternalReference)
		}
	}

	return out, nil
}

func looksLikeEmail(s string) bool {
	v := strings.TrimSpace(s)
	return strings.Contains(v, "@") && strings.Contains(v, ".")
}

func parseProviderDate(s string) *time.Time {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
