package courseValidator

import (
	"strings"
	"time"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

func AddCourseRating() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint   `json:"courseId"`
			Rating   int    `json:"rating"`
			Review   string `json:"review"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate CourseID
		if reqData.CourseID < 1 {
			errors["courseId"] = "Course id is required!"
		}

		// Validate Rating
		if reqData.Rating < 1 || reqData.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRating", reqData)
		return c.Next()
	}
}

func UpdateCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID  uint   `json:"courseId"`
			LectureID string `json:"lectureId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate CourseID
		if reqData.CourseID < 1 {
			errors["courseId"] = "Course id is required!"
		}

		// Validate LectureID
		if strings.TrimSpace(reqData.LectureID) == "" {
			errors["lectureId"] = "Lecture id is required!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

func SetCoursePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID           uint       `json:"courseId"`
			PlanType           string     `json:"planType"`
			Price              int64      `json:"price"`
			Currency           string     `json:"currency"`
			DiscountType       string     `json:"discountType"`
			DiscountValue      int64      `json:"discountValue"`
			DiscountValidFrom  *time.Time `json:"discountValidFrom"`
			DiscountValidUntil *time.Time `json:"discountValidUntil"`
			Features           []string   `json:"features"`
			PremiumBenefits    []string   `json:"premiumBenefits"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate CourseID
		if reqData.CourseID < 1 {
			errors["courseId"] = "Course id is required!"
		}

		// Validate PlanType
		if reqData.PlanType != courseModels.PlanStandard && reqData.PlanType != courseModels.PlanPremium {
			errors["planType"] = "Plan type must be standard or premium!"
		}

		// Validate Price
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		// Validate DiscountType
		if reqData.DiscountType != "" &&
			reqData.DiscountType != courseModels.DiscountPercentage &&
			reqData.DiscountType != courseModels.DiscountFixed {
			errors["discountType"] = "Discount type must be percentage or fixed!"
		}

		// Validate DiscountValue
		if reqData.DiscountValue < 0 {
			errors["discountValue"] = "Discount value cannot be negative!"
		} else if reqData.DiscountType == courseModels.DiscountPercentage && reqData.DiscountValue > 100 {
			errors["discountValue"] = "Percentage discount cannot exceed 100!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPlan", reqData)
		return c.Next()
	}
}
