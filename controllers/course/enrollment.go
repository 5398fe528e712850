package controllers

import (
	"encoding/json"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// GetMyEnrollments lists the user's active enrollments with plan tier
// and progress
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND status = ?", userID, courseModels.EnrollmentActive).
		Preload("Course").
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
	})
}

// GetLessonContent serves a lesson's payload after the access check.
// Free and preview lessons pass without enrollment; the rest follow the
// plan tier rules.
func GetLessonContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID, err := c.ParamsInt("lessonId")
	if err != nil || lessonID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
	}

	if !utils.CanAccessLesson(uint(lessonID), userID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this lesson!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
}

// UpdateCourseProgress marks a lesson completed on the user's
// enrollment and refreshes the denormalized progress snapshot
func UpdateCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedProgress").(*struct {
		CourseID  uint   `json:"courseId"`
		LectureID string `json:"lectureId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND status = ?",
		userID, reqData.CourseID, courseModels.EnrollmentActive).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var completed []string
	if len(enrollment.Progress.CompletedLessons) > 0 {
		if err := json.Unmarshal(enrollment.Progress.CompletedLessons, &completed); err != nil {
			completed = nil
		}
	}

	alreadyCompleted := false
	for _, id := range completed {
		if id == reqData.LectureID {
			alreadyCompleted = true
			break
		}
	}

	now := time.Now()
	if !alreadyCompleted {
		completed = append(completed, reqData.LectureID)
	}
	updated, err := json.Marshal(completed)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	// Percentage over the course's published lessons
	var totalLessons int64
	db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_published = ?", reqData.CourseID, true).
		Count(&totalLessons)

	percentage := enrollment.Progress.ProgressPercentage
	if totalLessons > 0 {
		percentage = float64(len(completed)) * 100 / float64(totalLessons)
		if percentage > 100 {
			percentage = 100
		}
	}

	enrollment.Progress.CompletedLessons = datatypes.JSON(updated)
	enrollment.Progress.LastAccessedLesson = reqData.LectureID
	enrollment.Progress.ProgressPercentage = percentage
	enrollment.Progress.LastAccessedAt = &now

	if err := db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	message := "Progress updated!"
	if alreadyCompleted {
		message = "Lecture already completed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, enrollment.Progress)
}

// GetCourseProgress returns the user's progress snapshot for a course
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status = ?",
		userID, courseID, courseModels.EnrollmentActive).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "You are not enrolled in this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", enrollment.Progress)
}
