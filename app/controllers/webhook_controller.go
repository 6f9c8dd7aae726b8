package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ManuelReschke/SubFox/app/models"
	"github.com/ManuelReschke/SubFox/app/repository"
	"github.com/ManuelReschke/SubFox/internal/pkg/webhook"
)

// WebhookController exposes the provider webhook endpoints. Replies are
// plain text; the providers only care about the status code.
type WebhookController struct {
	service *webhook.Service
	events  repository.WebhookEventRepository
	log     zerolog.Logger
}

func NewWebhookController(service *webhook.Service, events repository.WebhookEventRepository, log zerolog.Logger) *WebhookController {
	return &WebhookController{
		service: service,
		events:  events,
		log:     log,
	}
}

// HandleAsaasWebhook processes POST /webhook/asaas.
func (wc *WebhookController) HandleAsaasWebhook(c *fiber.Ctx) error {
	return wc.handle(c, webhook.ProviderAsaas, webhook.ParseAsaasEvent)
}

// HandleGuruWebhook processes POST /webhook/guru. The shared-secret check
// runs in middleware before this handler.
func (wc *WebhookController) HandleGuruWebhook(c *fiber.Ctx) error {
	return wc.handle(c, webhook.ProviderGuru, webhook.ParseGuruEvent)
}

func (wc *WebhookController) handle(c *fiber.Ctx, provider string, parse func([]byte) (*webhook.Event, error)) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	log := wc.log.With().Str("provider", provider).Str("delivery_id", uuid.NewString()).Logger()
	log.Info().Int("bytes", len(rawBody)).Msg("webhook request received")

	ev, err := parse(rawBody)
	if err != nil {
		log.Warn().Err(err).Msg("webhook payload rejected")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	}

	created, stored, err := wc.recordEvent(log, provider, ev, rawBody)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	if !created {
		if stored.Succeeded() {
			// Redelivery of an already processed event, acknowledge without reprocessing.
			log.Info().Uint("event_id", stored.ID).Msg("duplicate webhook delivery acknowledged")
			return c.Status(fiber.StatusOK).SendString("Webhook processed")
		}
		// The previous attempt failed, so the provider is retrying. Run it again.
		log.Info().Uint("event_id", stored.ID).Str("last_error", stored.ProcessingError).
			Msg("reprocessing previously failed webhook event")
	}

	applyErr := wc.service.Apply(c.Context(), ev)
	wc.markProcessed(stored.ID, applyErr)

	switch {
	case applyErr == nil:
		return c.Status(fiber.StatusOK).SendString("Webhook processed")
	case errors.Is(applyErr, webhook.ErrInvalidPayload):
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	case errors.Is(applyErr, webhook.ErrCustomerNotFound):
		return c.Status(fiber.StatusNotFound).SendString("Customer not found")
	case errors.Is(applyErr, webhook.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).SendString("User not found")
	default:
		log.Error().Err(applyErr).Msg("webhook processing failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
}

func (wc *WebhookController) recordEvent(log zerolog.Logger, provider string, ev *webhook.Event, rawBody []byte) (bool, *models.WebhookEvent, error) {
	eventID := strings.TrimSpace(ev.EventID)
	if eventID == "" {
		sum := sha256.Sum256(rawBody)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	created, stored, err := wc.events.CreateIfNotExists(&models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       ev.Name,
		PayloadJSON:     string(rawBody),
	})
	if err != nil {
		log.Error().Err(err).Msg("webhook event persist failed")
		return false, nil, err
	}
	return created, stored, nil
}

func (wc *WebhookController) markProcessed(eventID uint, processingErr error) {
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	if err := wc.events.MarkProcessed(eventID, errMsg); err != nil {
		wc.log.Error().Uint("event_id", eventID).Err(err).Msg("failed to mark webhook event processed")
	}
}
