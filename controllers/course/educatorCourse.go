package controllers

import (
	"encoding/json"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// courseDataPayload is the authoring payload sent as a JSON form field
// alongside the thumbnail file
type courseDataPayload struct {
	CourseTitle       string                       `json:"courseTitle"`
	CourseDescription string                       `json:"courseDescription"`
	CoursePrice       float64                      `json:"coursePrice"`
	Discount          float64                      `json:"discount"`
	PremiumPrice      float64                      `json:"premiumPrice"`
	PremiumDiscount   float64                      `json:"premiumDiscount"`
	Category          string                       `json:"category"`
	Level             string                       `json:"level"`
	Language          string                       `json:"language"`
	CourseContent     []courseModels.LegacyChapter `json:"courseContent"`
}

// UpdateRoleToEducator promotes the current user to educator
func UpdateRoleToEducator(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	result := database.Database.Db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", models.RoleEducator)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update role!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "You can publish a course now!", nil)
}

// AddCourse creates a draft course from the authoring payload. Content
// arrives in the legacy embedded form and is normalized later by the
// schema migration.
func AddCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	rawData := c.FormValue("courseData")
	if rawData == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course data missing!", nil)
	}

	var payload courseDataPayload
	if err := json.Unmarshal([]byte(rawData), &payload); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course data format!", nil)
	}
	if payload.CourseTitle == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course title is required!", nil)
	}

	// Backfill public ids missing from the authoring UI
	for ci := range payload.CourseContent {
		chapter := &payload.CourseContent[ci]
		if chapter.ChapterID == "" {
			chapter.ChapterID = uuid.NewString()
		}
		for li := range chapter.ChapterContent {
			if chapter.ChapterContent[li].LectureID == "" {
				chapter.ChapterContent[li].LectureID = uuid.NewString()
			}
		}
	}

	content, err := json.Marshal(payload.CourseContent)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course content!", nil)
	}

	crs := courseModels.Course{
		Title:           payload.CourseTitle,
		Description:     payload.CourseDescription,
		EducatorID:      userID,
		Status:          courseModels.StatusDraft,
		CoursePrice:     payload.CoursePrice,
		Discount:        payload.Discount,
		PremiumPrice:    payload.PremiumPrice,
		PremiumDiscount: payload.PremiumDiscount,
		Category:        payload.Category,
		Level:           payload.Level,
		Language:        payload.Language,
		CourseContent:   datatypes.JSON(content),
	}

	// Thumbnail is optional on creation but required to publish
	if imageFile, err := c.FormFile("image"); err == nil && imageFile != nil {
		path, err := utils.SaveUploadedFile(imageFile, config.AppConfig.UploadDir)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store thumbnail!", nil)
		}
		crs.Thumbnail = utils.GetFileURL(path)
	}

	if err := database.Database.Db.Create(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course added successfully!", crs)
}

// PublishCourse transitions a draft course to published. A thumbnail
// is required; archived courses stay archived.
func PublishCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND educator_id = ? AND is_deleted = ?", courseID, userID, false).
		First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if crs.Status == courseModels.StatusArchived {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Archived courses cannot be published!", nil)
	}
	if crs.Status == courseModels.StatusPublished {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course is already published!", crs)
	}

	// Thumbnail may also be attached with the publish request
	if imageFile, err := c.FormFile("image"); err == nil && imageFile != nil {
		path, err := utils.SaveUploadedFile(imageFile, config.AppConfig.UploadDir)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store thumbnail!", nil)
		}
		crs.Thumbnail = utils.GetFileURL(path)
	}

	if crs.Thumbnail == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Thumbnail not attached!", nil)
	}

	crs.Status = courseModels.StatusPublished
	if err := db.Save(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", crs)
}

// ArchiveCourse retires a course from the catalog. Terminal transition.
func ArchiveCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND educator_id = ? AND is_deleted = ?", courseID, userID, false).
		First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	crs.Status = courseModels.StatusArchived
	if err := db.Save(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to archive course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course archived successfully!", crs)
}

// SetCoursePlan creates or updates the pricing plan of one tier. The
// unique (course, planType) index keeps a single active plan per pair.
func SetCoursePlan(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedPlan").(*struct {
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
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND educator_id = ? AND is_deleted = ?",
		reqData.CourseID, userID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	features, _ := json.Marshal(reqData.Features)
	benefits, _ := json.Marshal(reqData.PremiumBenefits)

	accessLevel := courseModels.AccessStandard
	if reqData.PlanType == courseModels.PlanPremium {
		accessLevel = courseModels.AccessPremium
	}

	var plan courseModels.CoursePlan
	err := db.Where("course_id = ? AND plan_type = ?", crs.ID, reqData.PlanType).First(&plan).Error
	if err != nil {
		plan = courseModels.CoursePlan{
			CourseID: crs.ID,
			PlanType: reqData.PlanType,
		}
	}

	plan.Price = reqData.Price
	plan.Currency = reqData.Currency
	if plan.Currency == "" {
		plan.Currency = config.AppConfig.Currency
	}
	plan.DiscountType = reqData.DiscountType
	plan.DiscountValue = reqData.DiscountValue
	plan.DiscountValidFrom = reqData.DiscountValidFrom
	plan.DiscountValidUntil = reqData.DiscountValidUntil
	plan.Features = datatypes.JSON(features)
	plan.PremiumBenefits = datatypes.JSON(benefits)
	plan.LessonAccessLevel = accessLevel
	plan.IsActive = true

	if err := db.Save(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save plan!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plan saved successfully!", plan)
}

// GetEducatorCourses lists all courses owned by the educator
func GetEducatorCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("educator_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// EducatorDashboard aggregates earnings, course count and enrolled
// students for the educator's courses
func EducatorDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var courseIDs []uint
	if err := db.Model(&courseModels.Course{}).
		Where("educator_id = ? AND is_deleted = ?", userID, false).
		Pluck("id", &courseIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var totalEarnings int64
	var totalEnrollments int64
	if len(courseIDs) > 0 {
		db.Model(&courseModels.Purchase{}).
			Select("coalesce(sum(amount), 0)").
			Where("course_id IN ? AND status = ?", courseIDs, courseModels.PurchaseCompleted).
			Scan(&totalEarnings)

		db.Model(&courseModels.Enrollment{}).
			Where("course_id IN ? AND status = ?", courseIDs, courseModels.EnrollmentActive).
			Count(&totalEnrollments)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"total_courses":     len(courseIDs),
		"total_earnings":    totalEarnings,
		"total_enrollments": totalEnrollments,
	})
}

// GetEnrolledStudentsData lists students with completed purchases
// across the educator's courses
func GetEnrolledStudentsData(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var courseIDs []uint
	if err := db.Model(&courseModels.Course{}).
		Where("educator_id = ? AND is_deleted = ?", userID, false).
		Pluck("id", &courseIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	type enrolledStudent struct {
		StudentName  string    `json:"student_name"`
		StudentImage string    `json:"student_image"`
		CourseTitle  string    `json:"course_title"`
		PlanType     string    `json:"plan_type"`
		PurchaseDate time.Time `json:"purchase_date"`
	}

	var students []enrolledStudent
	if len(courseIDs) > 0 {
		db.Model(&courseModels.Purchase{}).
			Select("users.name as student_name, users.image_url as student_image, courses.title as course_title, purchases.plan_type, purchases.created_at as purchase_date").
			Joins("JOIN users ON users.id = purchases.user_id").
			Joins("JOIN courses ON courses.id = purchases.course_id").
			Where("purchases.course_id IN ? AND purchases.status = ?", courseIDs, courseModels.PurchaseCompleted).
			Order("purchases.created_at desc").
			Scan(&students)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled students fetched successfully!", students)
}
