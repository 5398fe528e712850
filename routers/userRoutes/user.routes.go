package userRoutes

import (
	controllers "lms/controllers/user"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, controllers.GetUserData)
	userGroup.Get("/purchases", middleware.JWTMiddleware, controllers.GetUserPurchases)
}
