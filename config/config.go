package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	Currency string // ISO currency code used for checkout (e.g. USD)

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeApiURL        string

	ClerkWebhookSecret string

	SendgridApiKey string
	EmailSender    string
	EmailName      string

	FrontendURL string // base URL for checkout success/cancel redirects

	UploadDir string // thumbnail upload destination

	PremiumPriceFactor float64 // legacy premium fallback multiplier
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		Currency: getEnv("CURRENCY", "USD"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeApiURL:        getEnv("STRIPE_API_URL", "https://api.stripe.com/v1"),

		ClerkWebhookSecret: getEnv("CLERK_WEBHOOK_SECRET", ""),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@learnsphere.io"),
		EmailName:      getEnv("EMAIL_NAME", "LearnSphere"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		PremiumPriceFactor: getEnvFloat("PREMIUM_PRICE_FACTOR", 1.5),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.StripeSecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY is not set. Checkout will fail.")
	}
	if AppConfig.StripeWebhookSecret == "" {
		log.Println("Warning: STRIPE_WEBHOOK_SECRET is not set. Webhooks will be rejected.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvFloat retrieves an environment variable as a float or returns the default float value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default", key)
		return defaultValue
	}
	return parsed
}
