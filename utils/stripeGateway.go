package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// CheckoutMetadata is the correlation payload attached to a checkout
// session. The webhook resolves the purchase from it; client-supplied
// identifiers are never trusted for confirmation.
type CheckoutMetadata struct {
	PurchaseID uint
	PlanType   string
	IsUpgrade  bool
}

// CheckoutSession is the subset of the processor's session object we use
type CheckoutSession struct {
	ID       string            `json:"id"`
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata"`
}

type checkoutSessionList struct {
	Data []CheckoutSession `json:"data"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession opens a hosted checkout session with the
// payment processor and returns its id and redirect URL
func CreateCheckoutSession(productName, productDescription string, amount int64, successURL, cancelURL string, meta CheckoutMetadata) (string, string, error) {
	currency := strings.ToLower(config.AppConfig.Currency)

	form := map[string]string{
		"mode":        "payment",
		"success_url": successURL,
		"cancel_url":  cancelURL,

		"line_items[0][price_data][currency]":                  currency,
		"line_items[0][price_data][product_data][name]":        productName,
		"line_items[0][price_data][product_data][description]": productDescription,
		"line_items[0][price_data][unit_amount]":               strconv.FormatInt(amount, 10),
		"line_items[0][quantity]":                              "1",

		"metadata[purchaseId]": strconv.FormatUint(uint64(meta.PurchaseID), 10),
		"metadata[planType]":   meta.PlanType,
	}
	if meta.IsUpgrade {
		form["metadata[isUpgrade]"] = "true"
	}

	client := resty.New()
	var session CheckoutSession
	var apiErr stripeError
	resp, err := client.R().
		SetBasicAuth(config.AppConfig.StripeSecretKey, "").
		SetFormData(form).
		SetResult(&session).
		SetError(&apiErr).
		Post(config.AppConfig.StripeApiURL + "/checkout/sessions")
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %v", err)
	}
	if resp.IsError() {
		return "", "", fmt.Errorf("checkout session API error: %s", apiErr.Error.Message)
	}

	return session.ID, session.URL, nil
}

// SessionMetadataForPaymentIntent looks up the checkout session created
// for a payment intent and returns its correlation metadata
func SessionMetadataForPaymentIntent(paymentIntentID string) (CheckoutMetadata, error) {
	client := resty.New()
	var list checkoutSessionList
	var apiErr stripeError
	resp, err := client.R().
		SetBasicAuth(config.AppConfig.StripeSecretKey, "").
		SetQueryParam("payment_intent", paymentIntentID).
		SetResult(&list).
		SetError(&apiErr).
		Get(config.AppConfig.StripeApiURL + "/checkout/sessions")
	if err != nil {
		return CheckoutMetadata{}, fmt.Errorf("failed to fetch checkout session: %v", err)
	}
	if resp.IsError() {
		return CheckoutMetadata{}, fmt.Errorf("checkout session API error: %s", apiErr.Error.Message)
	}
	if len(list.Data) == 0 {
		return CheckoutMetadata{}, fmt.Errorf("no checkout session for payment intent %s", paymentIntentID)
	}

	return ParseCheckoutMetadata(list.Data[0].Metadata)
}

// ParseCheckoutMetadata decodes the string map stored on a session
func ParseCheckoutMetadata(raw map[string]string) (CheckoutMetadata, error) {
	purchaseID, err := strconv.ParseUint(raw["purchaseId"], 10, 64)
	if err != nil {
		return CheckoutMetadata{}, fmt.Errorf("invalid purchaseId in session metadata: %v", err)
	}
	return CheckoutMetadata{
		PurchaseID: uint(purchaseID),
		PlanType:   raw["planType"],
		IsUpgrade:  raw["isUpgrade"] == "true",
	}, nil
}

// VerifyStripeSignature checks the processor's webhook signature header
// (t=<unix>,v1=<hex hmac-sha256 of "<t>.<payload>">). Verification runs
// before any business logic; a bad signature fails closed.
func VerifyStripeSignature(payload []byte, sigHeader, secret string, tolerance time.Duration) error {
	var timestamp string
	var signatures []string

	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid signature timestamp")
	}
	if tolerance > 0 {
		age := time.Since(time.Unix(ts, 0))
		if age > tolerance || age < -tolerance {
			return fmt.Errorf("signature timestamp outside tolerance")
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}

// VerifySvixSignature checks the identity provider's webhook signature
// (svix scheme: base64 hmac-sha256 of "<id>.<timestamp>.<payload>",
// secret prefixed with "whsec_")
func VerifySvixSignature(payload []byte, msgID, timestamp, sigHeader, secret string) error {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return fmt.Errorf("invalid webhook secret: %v", err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// Header carries space-separated "v1,<sig>" entries
	for _, versioned := range strings.Split(sigHeader, " ") {
		parts := strings.SplitN(versioned, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		if hmac.Equal([]byte(expected), []byte(parts[1])) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}
