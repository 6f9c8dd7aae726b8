package webhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ManuelReschke/SubFox/internal/pkg/cache"
)

// CachedResolver wraps a CustomerResolver with a Redis cache so webhook
// redeliveries do not re-hit the provider API. Cache failures fall
// through to the inner resolver.
type CachedResolver struct {
	inner CustomerResolver
	ttl   time.Duration
}

func NewCachedResolver(inner CustomerResolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{inner: inner, ttl: ttl}
}

func (r *CachedResolver) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	key := "customer:" + customerID
	if raw, err := cache.Get(key); err == nil {
		var cached Customer
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			return &cached, nil
		}
	}

	customer, err := r.inner.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if raw, jsonErr := json.Marshal(customer); jsonErr == nil {
		// Best effort, a failed cache write never fails the lookup.
		_ = cache.Set(key, string(raw), r.ttl)
	}
	return customer, nil
}
