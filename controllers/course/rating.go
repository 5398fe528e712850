package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// AddCourseRating creates or updates the user's rating of a course.
// Only users holding an active enrollment may rate (verified purchase).
func AddCourseRating(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedRating").(*struct {
		CourseID uint   `json:"courseId"`
		Rating   int    `json:"rating"`
		Review   string `json:"review"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !utils.HasActiveEnrollment(userID, crs.ID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You have not purchased this course!", nil)
	}

	var existing courseModels.Rating
	if err := db.Where("user_id = ? AND course_id = ?", userID, crs.ID).First(&existing).Error; err == nil {
		existing.Rating = reqData.Rating
		existing.Review = reqData.Review
		if err := db.Save(&existing).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update rating!", nil)
		}
	} else {
		rating := courseModels.Rating{
			UserID:             userID,
			CourseID:           crs.ID,
			Rating:             reqData.Rating,
			Review:             reqData.Review,
			IsVerifiedPurchase: true,
			Status:             courseModels.RatingPublished,
		}
		if err := db.Create(&rating).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit rating!", nil)
		}
	}

	// Refresh the denormalized average on the course
	if err := utils.RecomputeCourseStats(crs.ID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating added!", nil)
}

// GetCourseRatings lists the published ratings of a course
func GetCourseRatings(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var ratings []courseModels.Rating
	if err := database.Database.Db.
		Where("course_id = ? AND status = ?", courseID, courseModels.RatingPublished).
		Order("created_at desc").
		Find(&ratings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ratings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ratings fetched successfully!", ratings)
}
