package webhookRoutes

import (
	controllers "lms/controllers/webhook"

	"github.com/gofiber/fiber/v2"
)

// SetupWebhookRoutes sets up provider callback routes. These are
// verified by signature, not by JWT.
func SetupWebhookRoutes(app *fiber.App) {
	webhookGroup := app.Group("/webhook")

	webhookGroup.Post("/stripe", controllers.StripeWebhook)
	webhookGroup.Post("/clerk", controllers.ClerkWebhook)
}
