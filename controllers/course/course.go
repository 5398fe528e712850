package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetPublishedCourses lists published courses for the catalog
func GetPublishedCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	db.Model(&courseModels.Course{}).
		Where("status = ? AND is_deleted = ?", courseModels.StatusPublished, false).
		Count(&total)

	var courses []courseModels.Course
	if err := db.Where("status = ? AND is_deleted = ?", courseModels.StatusPublished, false).
		Order("stats_total_enrollments desc").
		Offset(offset).Limit(limit).
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns one published course with its sections,
// lessons and active plans. Media URLs of locked lessons are stripped;
// the public preview carve-out keeps free/preview lecture URLs visible.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND status = ?",
		courseID, false, courseModels.StatusPublished).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var sections []courseModels.Section
	db.Where("course_id = ? AND is_published = ?", crs.ID, true).
		Order("order_index asc").Find(&sections)

	var lessons []courseModels.Lesson
	db.Where("course_id = ? AND is_published = ?", crs.ID, true).
		Order("order_index asc").Find(&lessons)

	// Lock down non-preview media for the public view
	for i := range lessons {
		if lessons[i].AccessLevel != courseModels.AccessFree && !lessons[i].IsPreviewFree {
			lessons[i].Content.VideoURL = ""
			lessons[i].Content.Text = ""
		}
	}

	var plans []courseModels.CoursePlan
	db.Where("course_id = ? AND is_active = ?", crs.ID, true).
		Order("plan_type asc").Find(&plans)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":   crs,
		"sections": sections,
		"lessons":  lessons,
		"plans":    plans,
	})
}
