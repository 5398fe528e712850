package paymentController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupPaymentTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:paymenttest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig = &config.Config{
		JWTKey:      "test-secret",
		Currency:    "USD",
		FrontendURL: "http://localhost:5173",
	}

	app := fiber.New()
	app.Post("/payment/purchase", middleware.JWTMiddleware, paymentValidator.PurchaseCourse(), PurchaseCourse)
	app.Post("/payment/upgrade", middleware.JWTMiddleware, paymentValidator.UpgradeToPremium(), UpgradeToPremium)
	return app, db
}

func mockCheckout(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_test_1","url":"https://checkout.test/cs_test_1"}`)
	}))
	config.AppConfig.StripeApiURL = server.URL
	return server
}

func authToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.GenerateJWT(userID, "Test User", models.RoleStudent, userID+"@test.local")
	require.NoError(t, err)
	return token
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	respBody, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	_ = json.Unmarshal(respBody, &parsed)
	return resp, parsed
}

func seedPaymentFixtures(t *testing.T, db *gorm.DB) courseModels.Course {
	t.Helper()
	require.NoError(t, db.Create(&models.User{ID: "user_1", Email: "u@test.local", Name: "U"}).Error)
	crs := courseModels.Course{
		Title:        "Go Fundamentals",
		EducatorID:   "user_educator",
		Status:       courseModels.StatusPublished,
		CoursePrice:  100,
		Discount:     20,
		PremiumPrice: 150,
	}
	require.NoError(t, db.Create(&crs).Error)
	return crs
}

func TestPurchaseCourseCreatesPendingPurchase(t *testing.T) {
	app, db := setupPaymentTest(t)
	crs := seedPaymentFixtures(t, db)
	server := mockCheckout(t)
	defer server.Close()

	resp, body := postJSON(t, app, "/payment/purchase", authToken(t, "user_1"), fiber.Map{
		"courseId": crs.ID,
		"planType": "standard",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "https://checkout.test/cs_test_1", data["session_url"])

	var purchase courseModels.Purchase
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", "user_1", crs.ID).First(&purchase).Error)
	assert.Equal(t, courseModels.PurchasePending, purchase.Status)
	assert.Equal(t, int64(8000), purchase.Amount)
	assert.Equal(t, "cs_test_1", purchase.StripeSessionID)
	assert.False(t, purchase.IsUpgrade)

	// No enrollment until the webhook confirms
	var count int64
	db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPurchaseCourseRejectsInvalidPlanType(t *testing.T) {
	app, db := setupPaymentTest(t)
	crs := seedPaymentFixtures(t, db)

	resp, _ := postJSON(t, app, "/payment/purchase", authToken(t, "user_1"), fiber.Map{
		"courseId": crs.ID,
		"planType": "platinum",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var count int64
	db.Model(&courseModels.Purchase{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPurchaseCourseRejectsUnpublishedCourse(t *testing.T) {
	app, db := setupPaymentTest(t)
	require.NoError(t, db.Create(&models.User{ID: "user_1", Email: "u@test.local", Name: "U"}).Error)
	draft := courseModels.Course{
		Title:      "Hidden Draft",
		EducatorID: "user_educator",
		Status:     courseModels.StatusDraft,
	}
	require.NoError(t, db.Create(&draft).Error)

	resp, _ := postJSON(t, app, "/payment/purchase", authToken(t, "user_1"), fiber.Map{
		"courseId": draft.ID,
		"planType": "standard",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurchaseCourseRejectsExistingEnrollment(t *testing.T) {
	app, db := setupPaymentTest(t)
	crs := seedPaymentFixtures(t, db)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID: "user_1", CourseID: crs.ID,
		PlanType: courseModels.PlanStandard, Status: courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	resp, body := postJSON(t, app, "/payment/purchase", authToken(t, "user_1"), fiber.Map{
		"courseId": crs.ID,
		"planType": "standard",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "You are already enrolled in this course!", body["message"])
}

func TestUpgradeRequiresEnrollment(t *testing.T) {
	app, db := setupPaymentTest(t)
	crs := seedPaymentFixtures(t, db)

	resp, body := postJSON(t, app, "/payment/upgrade", authToken(t, "user_1"), fiber.Map{
		"courseId": crs.ID,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "You must be enrolled in this course first!", body["message"])
}

func TestUpgradeRejectsAlreadyPremium(t *testing.T) {
	app, db := setupPaymentTest(t)
	crs := seedPaymentFixtures(t, db)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID: "user_1", CourseID: crs.ID,
		PlanType: courseModels.PlanPremium, Status: courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	resp, body := postJSON(t, app, "/payment/upgrade", authToken(t, "user_1"), fiber.Map{
		"courseId": crs.ID,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "You already have premium access!", body["message"])
}

func TestUpgradeChargesPriceDelta(t *testing.T) {
	app, db := setupPaymentTest(t)
	crs := seedPaymentFixtures(t, db)
	server := mockCheckout(t)
	defer server.Close()

	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID: "user_1", CourseID: crs.ID,
		PlanType: courseModels.PlanStandard, Status: courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	resp, _ := postJSON(t, app, "/payment/upgrade", authToken(t, "user_1"), fiber.Map{
		"courseId": crs.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// standard 80.00, premium 150.00: delta 70.00
	var purchase courseModels.Purchase
	require.NoError(t, db.Where("user_id = ? AND is_upgrade = ?", "user_1", true).First(&purchase).Error)
	assert.Equal(t, int64(7000), purchase.Amount)
	assert.Equal(t, courseModels.PlanPremium, purchase.PlanType)
	assert.Equal(t, courseModels.PurchasePending, purchase.Status)
}

func TestPurchaseRequiresAuth(t *testing.T) {
	app, _ := setupPaymentTest(t)

	resp, _ := postJSON(t, app, "/payment/purchase", "", fiber.Map{"courseId": 1})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
