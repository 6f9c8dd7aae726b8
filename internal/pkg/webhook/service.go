package webhook

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
)

var (
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrUserNotFound     = errors.New("user not found")
)

// CustomerResolver translates a provider customer id into contact details.
type CustomerResolver interface {
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
}

// UserStore is the persistence surface the updater needs: a lookup by
// lowercased email and one atomic replace of the subscription fields.
type UserStore interface {
	GetByEmail(email string) (*models.User, error)
	UpdateSubscription(email, status string, endDate *time.Time, subscriptionID *string) error
}

// Service applies normalized webhook events to user subscription state.
type Service struct {
	users    UserStore
	resolver CustomerResolver
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a subscription updater from its collaborators.
func NewService(users UserStore, resolver CustomerResolver, log zerolog.Logger) *Service {
	return &Service{
		users:    users,
		resolver: resolver,
		log:      log,
		now:      time.Now,
	}
}

// Apply resolves the target user for the event, classifies it, and writes
// the resulting subscription state. It never creates users; unknown
// customers and unknown users report not-found without side effects.
func (s *Service) Apply(ctx context.Context, ev *Event) error {
	if ev == nil || strings.TrimSpace(ev.Name) == "" {
		return ErrInvalidPayload
	}

	email, err := s.resolveEmail(ctx, ev)
	if err != nil {
		return err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info().Str("provider", ev.Provider).Str("event", ev.Name).Str("email", email).
				Msg("webhook for unknown user")
			return ErrUserNotFound
		}
		return err
	}

	update, class := BuildUpdate(ev, s.now())
	s.log.Info().
		Str("provider", ev.Provider).
		Str("event", ev.Name).
		Str("class", string(class)).
		Str("email", email).
		Msg("webhook event classified")

	if update == nil {
		// Informational or unrecognized event, the user row stays untouched.
		return nil
	}

	if err := s.users.UpdateSubscription(user.Email, update.Status, update.EndDate, update.SubscriptionID); err != nil {
		return err
	}

	s.log.Info().
		Str("email", email).
		Str("status", update.Status).
		Msg("subscription state written")
	return nil
}

func (s *Service) resolveEmail(ctx context.Context, ev *Event) (string, error) {
	if looksLikeEmail(ev.Email) {
		return ev.Email, nil
	}
	if strings.TrimSpace(ev.CustomerRef) == "" {
		s.log.Warn().Str("provider", ev.Provider).Str("event", ev.Name).
			Msg("webhook payload carries neither email nor customer reference")
		return "", ErrInvalidPayload
	}

	customer, err := s.resolver.GetCustomer(ctx, ev.CustomerRef)
	if err != nil {
		return "", err
	}
	if !looksLikeEmail(customer.Email) {
		return "", ErrCustomerNotFound
	}
	return customer.Email, nil
}
