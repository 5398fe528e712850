package paymentValidator

import (
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

func PurchaseCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint   `json:"courseId"`
			PlanType string `json:"planType"`
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
		if reqData.PlanType == "" {
			reqData.PlanType = courseModels.PlanStandard
		} else if reqData.PlanType != courseModels.PlanStandard && reqData.PlanType != courseModels.PlanPremium {
			errors["planType"] = "Plan type must be standard or premium!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPurchase", reqData)
		return c.Next()
	}
}

func UpgradeToPremium() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"courseId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate CourseID
		if reqData.CourseID < 1 {
			errors["courseId"] = "Course id is required!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpgrade", reqData)
		return c.Next()
	}
}
