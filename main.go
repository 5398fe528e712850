package main

import (
	"lms/config"
	"lms/database"
	"lms/routers/courseRoutes"
	"lms/routers/educatorRoutes"
	"lms/routers/paymentRoutes"
	"lms/routers/userRoutes"
	"lms/routers/webhookRoutes"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded thumbnails
	app.Static("/uploads", config.AppConfig.UploadDir)

	courseRoutes.SetupCourseRoutes(app)
	educatorRoutes.SetupEducatorRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	userRoutes.SetupUserRoutes(app)
	webhookRoutes.SetupWebhookRoutes(app)

	utils.InitializeMaintenanceScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
