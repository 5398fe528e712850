package paymentController

import (
	"fmt"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// PurchaseCourse creates a pending purchase and opens a checkout
// session with the payment processor. The enrollment itself is only
// materialized later by the payment webhook.
func PurchaseCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedPurchase").(*struct {
		CourseID uint   `json:"courseId"`
		PlanType string `json:"planType"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?",
		reqData.CourseID, false, courseModels.StatusPublished).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if utils.HasActiveEnrollment(userID, crs.ID) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
	}

	finalPrice := utils.PlanPrice(&crs, reqData.PlanType)

	purchase := courseModels.Purchase{
		CourseID: crs.ID,
		UserID:   userID,
		Amount:   finalPrice,
		Currency: config.AppConfig.Currency,
		PlanType: reqData.PlanType,
		Status:   courseModels.PurchasePending,
	}
	if err := database.Database.Db.Create(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create purchase!", nil)
	}

	planLabel := " (Standard)"
	description := "Includes: Full Course Access, Certificate of Completion"
	if reqData.PlanType == courseModels.PlanPremium {
		planLabel = " (Premium)"
		description = "Includes: Full Course Access, Certificate, 1-on-1 Mentorship, Code Review"
	}

	sessionID, sessionURL, err := utils.CreateCheckoutSession(
		crs.Title+planLabel,
		description,
		finalPrice,
		config.AppConfig.FrontendURL+"/loading/my-enrollments",
		config.AppConfig.FrontendURL+"/",
		utils.CheckoutMetadata{
			PurchaseID: purchase.ID,
			PlanType:   reqData.PlanType,
		},
	)
	if err != nil {
		// The purchase stays pending and is picked up by reconciliation;
		// never promoted without a webhook confirmation
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to open checkout session!", nil)
	}

	database.Database.Db.Model(&purchase).Update("stripe_session_id", sessionID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
		"session_url": sessionURL,
		"purchase_id": purchase.ID,
	})
}

// UpgradeToPremium bills the premium/standard price delta for an
// already-enrolled user and opens checkout for it
func UpgradeToPremium(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedUpgrade").(*struct {
		CourseID uint `json:"courseId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).
		First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status = ?",
		userID, crs.ID, courseModels.EnrollmentActive).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You must be enrolled in this course first!", nil)
	}

	if enrollment.PlanType == courseModels.PlanPremium {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already have premium access!", nil)
	}

	upgradePrice := utils.UpgradePrice(&crs)

	purchase := courseModels.Purchase{
		CourseID:     crs.ID,
		UserID:       userID,
		Amount:       upgradePrice,
		Currency:     config.AppConfig.Currency,
		PlanType:     courseModels.PlanPremium,
		Status:       courseModels.PurchasePending,
		IsUpgrade:    true,
		UpgradedFrom: enrollment.PurchaseID,
	}
	if err := database.Database.Db.Create(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create purchase!", nil)
	}

	sessionID, sessionURL, err := utils.CreateCheckoutSession(
		crs.Title+" - Upgrade to Premium",
		"Unlock: 1-on-1 Mentorship, Personal Code Reviews, Priority Support",
		upgradePrice,
		config.AppConfig.FrontendURL+"/loading/my-enrollments",
		fmt.Sprintf("%s/course/%d", config.AppConfig.FrontendURL, crs.ID),
		utils.CheckoutMetadata{
			PurchaseID: purchase.ID,
			PlanType:   courseModels.PlanPremium,
			IsUpgrade:  true,
		},
	)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to open checkout session!", nil)
	}

	database.Database.Db.Model(&purchase).Update("stripe_session_id", sessionID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
		"session_url": sessionURL,
		"purchase_id": purchase.ID,
	})
}
