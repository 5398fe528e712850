package webhookController

import (
	"encoding/json"
	"log"
	"time"

	"lms/config"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

const signatureTolerance = 5 * time.Minute

// stripeEvent is the envelope of a processor webhook delivery
type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// StripeWebhook handles payment confirmations from the processor. The
// signature check fails closed; after that, business errors are logged
// and swallowed so the acknowledgement is never blocked; the processor
// redelivers and every handler downstream is idempotent.
func StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	sig := c.Get("Stripe-Signature")
	if err := utils.VerifyStripeSignature(payload, sig, config.AppConfig.StripeWebhookSecret, signatureTolerance); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + err.Error())
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: invalid payload")
	}

	switch event.Type {
	case "payment_intent.succeeded":
		meta, err := utils.SessionMetadataForPaymentIntent(event.Data.Object.ID)
		if err != nil {
			log.Printf("[STRIPE-WEBHOOK] failed to resolve session for intent %s: %v", event.Data.Object.ID, err)
			break
		}
		if err := utils.FulfillPurchase(meta); err != nil {
			log.Printf("[STRIPE-WEBHOOK] fulfillment failed for purchase %d: %v", meta.PurchaseID, err)
		}

	case "payment_intent.payment_failed":
		meta, err := utils.SessionMetadataForPaymentIntent(event.Data.Object.ID)
		if err != nil {
			log.Printf("[STRIPE-WEBHOOK] failed to resolve session for intent %s: %v", event.Data.Object.ID, err)
			break
		}
		if err := utils.FailPurchase(meta); err != nil {
			log.Printf("[STRIPE-WEBHOOK] failure mark failed for purchase %d: %v", meta.PurchaseID, err)
		}

	default:
		log.Printf("[STRIPE-WEBHOOK] unhandled event type %s", event.Type)
	}

	// Always acknowledge receipt of the event
	return c.JSON(fiber.Map{"received": true})
}
