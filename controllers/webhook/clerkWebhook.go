package webhookController

import (
	"encoding/json"
	"log"

	"lms/config"
	"lms/database"
	"lms/models"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// clerkEvent is the envelope of an identity-provider webhook delivery
type clerkEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// ClerkWebhook keeps the local User table in sync with the identity
// provider. Deliveries are svix-signed; verification fails closed.
func ClerkWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	err := verifySvix(c, payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + err.Error())
	}

	var event clerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: invalid payload")
	}

	db := database.Database.Db

	switch event.Type {
	case "user.created":
		user := models.User{
			ID:       event.Data.ID,
			Email:    primaryEmail(&event),
			Name:     event.Data.FirstName + " " + event.Data.LastName,
			ImageURL: event.Data.ImageURL,
			Role:     models.RoleStudent,
		}
		if err := db.Create(&user).Error; err != nil {
			// Duplicate delivery: the row already exists, treat as synced
			log.Printf("[CLERK-WEBHOOK] create user %s: %v", event.Data.ID, err)
		}

	case "user.updated":
		updates := map[string]interface{}{
			"email":     primaryEmail(&event),
			"name":      event.Data.FirstName + " " + event.Data.LastName,
			"image_url": event.Data.ImageURL,
		}
		if err := db.Model(&models.User{}).Where("id = ?", event.Data.ID).Updates(updates).Error; err != nil {
			log.Printf("[CLERK-WEBHOOK] update user %s: %v", event.Data.ID, err)
		}

	case "user.deleted":
		if err := db.Where("id = ?", event.Data.ID).Delete(&models.User{}).Error; err != nil {
			log.Printf("[CLERK-WEBHOOK] delete user %s: %v", event.Data.ID, err)
		}

	default:
		log.Printf("[CLERK-WEBHOOK] unhandled event type %s", event.Type)
	}

	return c.JSON(fiber.Map{})
}

func verifySvix(c *fiber.Ctx, payload []byte) error {
	return utils.VerifySvixSignature(
		payload,
		c.Get("svix-id"),
		c.Get("svix-timestamp"),
		c.Get("svix-signature"),
		config.AppConfig.ClerkWebhookSecret,
	)
}

func primaryEmail(event *clerkEvent) string {
	if len(event.Data.EmailAddresses) > 0 {
		return event.Data.EmailAddresses[0].EmailAddress
	}
	return ""
}
