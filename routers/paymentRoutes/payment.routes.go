package paymentRoutes

import (
	controllers "lms/controllers/payment"
	"lms/middleware"
	validators "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up checkout routes
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/purchase", middleware.JWTMiddleware, validators.PurchaseCourse(), controllers.PurchaseCourse)
	paymentGroup.Post("/upgrade", middleware.JWTMiddleware, validators.UpgradeToPremium(), controllers.UpgradeToPremium)
}
