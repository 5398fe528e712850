package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signStripe(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyStripeSignature(t *testing.T) {
	payload := []byte(`{"type":"payment_intent.succeeded"}`)
	secret := "whsec_test_secret"
	now := time.Now().Unix()

	t.Run("valid signature", func(t *testing.T) {
		header := signStripe(payload, secret, now)
		assert.NoError(t, VerifyStripeSignature(payload, header, secret, 5*time.Minute))
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := signStripe(payload, "other_secret", now)
		assert.Error(t, VerifyStripeSignature(payload, header, secret, 5*time.Minute))
	})

	t.Run("tampered payload", func(t *testing.T) {
		header := signStripe(payload, secret, now)
		assert.Error(t, VerifyStripeSignature([]byte(`{"type":"evil"}`), header, secret, 5*time.Minute))
	})

	t.Run("stale timestamp", func(t *testing.T) {
		old := time.Now().Add(-time.Hour).Unix()
		header := signStripe(payload, secret, old)
		assert.Error(t, VerifyStripeSignature(payload, header, secret, 5*time.Minute))
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Error(t, VerifyStripeSignature(payload, "nonsense", secret, 5*time.Minute))
		assert.Error(t, VerifyStripeSignature(payload, "", secret, 5*time.Minute))
	})

	t.Run("extra signature entries", func(t *testing.T) {
		header := signStripe(payload, secret, now) + ",v1=deadbeef"
		assert.NoError(t, VerifyStripeSignature(payload, header, secret, 5*time.Minute))
	})
}

func TestVerifySvixSignature(t *testing.T) {
	payload := []byte(`{"type":"user.created"}`)
	rawKey := []byte("0123456789abcdef0123456789abcdef")
	secret := "whsec_" + base64.StdEncoding.EncodeToString(rawKey)
	msgID := "msg_2abc"
	timestamp := "1693310400"

	mac := hmac.New(sha256.New, rawKey)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	valid := "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	t.Run("valid signature", func(t *testing.T) {
		assert.NoError(t, VerifySvixSignature(payload, msgID, timestamp, valid, secret))
	})

	t.Run("multiple entries with one valid", func(t *testing.T) {
		header := "v1,bm90dmFsaWQ= " + valid
		assert.NoError(t, VerifySvixSignature(payload, msgID, timestamp, header, secret))
	})

	t.Run("wrong signature", func(t *testing.T) {
		assert.Error(t, VerifySvixSignature(payload, msgID, timestamp, "v1,bm90dmFsaWQ=", secret))
	})

	t.Run("wrong message id", func(t *testing.T) {
		assert.Error(t, VerifySvixSignature(payload, "msg_other", timestamp, valid, secret))
	})
}

func TestParseCheckoutMetadata(t *testing.T) {
	meta, err := ParseCheckoutMetadata(map[string]string{
		"purchaseId": "42",
		"planType":   "premium",
		"isUpgrade":  "true",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), meta.PurchaseID)
	assert.Equal(t, "premium", meta.PlanType)
	assert.True(t, meta.IsUpgrade)

	meta, err = ParseCheckoutMetadata(map[string]string{
		"purchaseId": "7",
		"planType":   "standard",
	})
	require.NoError(t, err)
	assert.False(t, meta.IsUpgrade)

	_, err = ParseCheckoutMetadata(map[string]string{"planType": "standard"})
	assert.Error(t, err)
}

func TestCreateCheckoutSession(t *testing.T) {
	setupTestDB(t)

	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_test_123","url":"https://checkout.test/session/cs_test_123"}`)
	}))
	defer server.Close()
	config.AppConfig.StripeApiURL = server.URL

	sessionID, sessionURL, err := CreateCheckoutSession(
		"Go Fundamentals", "Standard Plan", 8000,
		"https://frontend.test/success", "https://frontend.test/cancel",
		CheckoutMetadata{PurchaseID: 42, PlanType: "standard"},
	)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", sessionID)
	assert.Equal(t, "https://checkout.test/session/cs_test_123", sessionURL)

	assert.Equal(t, "payment", gotForm["mode"])
	assert.Equal(t, "8000", gotForm["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "usd", gotForm["line_items[0][price_data][currency]"])
	assert.Equal(t, "42", gotForm["metadata[purchaseId]"])
	assert.Equal(t, "standard", gotForm["metadata[planType]"])
	// Non-upgrade checkouts omit the upgrade flag
	_, hasUpgrade := gotForm["metadata[isUpgrade]"]
	assert.False(t, hasUpgrade)
}

func TestCreateCheckoutSessionAPIError(t *testing.T) {
	setupTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"Your card was declined."}}`)
	}))
	defer server.Close()
	config.AppConfig.StripeApiURL = server.URL

	_, _, err := CreateCheckoutSession("X", "Y", 100, "s", "c", CheckoutMetadata{PurchaseID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declined")
}

func TestSessionMetadataForPaymentIntent(t *testing.T) {
	setupTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pi_test_9", r.URL.Query().Get("payment_intent"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"cs_test_123","metadata":{"purchaseId":"42","planType":"premium","isUpgrade":"true"}}]}`)
	}))
	defer server.Close()
	config.AppConfig.StripeApiURL = server.URL

	meta, err := SessionMetadataForPaymentIntent("pi_test_9")
	require.NoError(t, err)
	assert.Equal(t, uint(42), meta.PurchaseID)
	assert.Equal(t, "premium", meta.PlanType)
	assert.True(t, meta.IsUpgrade)
}

func TestSessionMetadataForPaymentIntentNoSession(t *testing.T) {
	setupTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer server.Close()
	config.AppConfig.StripeApiURL = server.URL

	_, err := SessionMetadataForPaymentIntent("pi_unknown")
	assert.Error(t, err)
}
