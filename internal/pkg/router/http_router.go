package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/SubFox/app/controllers"
	"github.com/ManuelReschke/SubFox/app/repository"
	"github.com/ManuelReschke/SubFox/internal/pkg/database"
	"github.com/ManuelReschke/SubFox/internal/pkg/env"
	"github.com/ManuelReschke/SubFox/internal/pkg/logging"
	"github.com/ManuelReschke/SubFox/internal/pkg/middleware"
	"github.com/ManuelReschke/SubFox/internal/pkg/webhook"
)

const customerCacheTTL = 10 * time.Minute

// Providers batch redeliveries, so the webhook limit stays well above
// the fiber default of 5 requests per minute.
const (
	webhookRateLimit  = 300
	webhookRateWindow = time.Minute
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	repository.InitializeFactory(database.GetDB())
	factory := repository.GetGlobalFactory()
	log := logging.GetLogger()

	resolver := webhook.NewCachedResolver(webhook.NewAsaasClientFromEnv(), customerCacheTTL)
	service := webhook.NewService(factory.GetUserRepository(), resolver, log)

	webhookController := controllers.NewWebhookController(service, factory.GetWebhookEventRepository(), log)
	diagController := controllers.NewDiagnosticController(factory.GetUserRepository())

	hooks := app.Group("/webhook", limiter.New(limiter.Config{
		Max:        webhookRateLimit,
		Expiration: webhookRateWindow,
	}))
	hooks.Post("/asaas", webhookController.HandleAsaasWebhook)
	hooks.Post("/guru",
		middleware.AccountTokenMiddleware(env.GetEnv("GURU_ACCOUNT_TOKEN", "")),
		webhookController.HandleGuruWebhook,
	)

	app.Get("/ping", diagController.HandlePing)
	app.Get("/health", diagController.HandleHealth)
	app.Get("/test-db", diagController.HandleTestDB)
	app.Get("/test-user", diagController.HandleTestUser)
	app.Get("/check-subscription/:email", diagController.HandleCheckSubscription)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
