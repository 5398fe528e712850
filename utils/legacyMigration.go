package utils

import (
	"encoding/json"
	"log"
	"math"

	"lms/database"
	courseModels "lms/models/course"
)

// MigrationReport counts what one migration run actually created.
// A re-run over migrated data reports all zeros.
type MigrationReport struct {
	CoursesProcessed   int
	PlansCreated       int
	EnrollmentsCreated int
	RatingsCreated     int
	SectionsCreated    int
	LessonsCreated     int
}

// MigrateLegacyCourses converts the embedded course documents into the
// normalized CoursePlan/Enrollment/Rating/Section/Lesson tables. Every
// creation step is existence-gated, so the tool is idempotent per
// record and safe to re-run after a partial prior run.
func MigrateLegacyCourses() (MigrationReport, error) {
	db := database.Database.Db
	report := MigrationReport{}

	var courses []courseModels.Course
	if err := db.Where("is_deleted = ?", false).Find(&courses).Error; err != nil {
		return report, err
	}

	for i := range courses {
		crs := &courses[i]
		log.Printf("[MIGRATION] migrating course %d: %s", crs.ID, crs.Title)

		migratePlans(crs, &report)
		migrateEnrollments(crs, &report)
		migrateRatings(crs, &report)
		migrateContent(crs, &report)

		// Recompute stats from the now-normalized rows
		if err := RecomputeCourseStats(crs.ID); err != nil {
			log.Printf("[MIGRATION] stats recompute failed for course %d: %v", crs.ID, err)
		}

		// Normalize legacy status casing (DRAFT -> draft)
		if normalized := courseModels.NormalizeStatus(crs.Status); normalized != crs.Status {
			db.Model(crs).UpdateColumn("status", normalized)
		}

		report.CoursesProcessed++
	}

	return report, nil
}

// migratePlans derives CoursePlan rows from the legacy pricing fields
func migratePlans(crs *courseModels.Course, report *MigrationReport) {
	db := database.Database.Db

	var standard courseModels.CoursePlan
	err := db.Where("course_id = ? AND plan_type = ?", crs.ID, courseModels.PlanStandard).
		First(&standard).Error
	if err != nil {
		plan := courseModels.CoursePlan{
			CourseID:          crs.ID,
			PlanType:          courseModels.PlanStandard,
			Price:             toCents(crs.CoursePrice),
			Currency:          "USD",
			DiscountType:      courseModels.DiscountPercentage,
			DiscountValue:     int64(math.Round(crs.Discount)),
			Features:          jsonArray("lifetime_access", "certificate", "mobile_access"),
			LessonAccessLevel: courseModels.AccessStandard,
			IsActive:          true,
		}
		if err := db.Create(&plan).Error; err != nil {
			log.Printf("[MIGRATION] failed to create standard plan for course %d: %v", crs.ID, err)
		} else {
			report.PlansCreated++
		}
	}

	if crs.PremiumPrice <= 0 {
		return
	}

	var premium courseModels.CoursePlan
	err = db.Where("course_id = ? AND plan_type = ?", crs.ID, courseModels.PlanPremium).
		First(&premium).Error
	if err != nil {
		benefits := crs.PremiumFeatures
		if len(benefits) == 0 {
			benefits = jsonArray("1-on-1 Mentorship Sessions", "Personal Code Reviews", "Priority Support")
		}
		plan := courseModels.CoursePlan{
			CourseID:          crs.ID,
			PlanType:          courseModels.PlanPremium,
			Price:             toCents(crs.PremiumPrice),
			Currency:          "USD",
			DiscountType:      courseModels.DiscountPercentage,
			DiscountValue:     int64(math.Round(crs.PremiumDiscount)),
			Features:          jsonArray("lifetime_access", "certificate", "mobile_access"),
			PremiumBenefits:   benefits,
			LessonAccessLevel: courseModels.AccessPremium,
			IsActive:          true,
		}
		if err := db.Create(&plan).Error; err != nil {
			log.Printf("[MIGRATION] failed to create premium plan for course %d: %v", crs.ID, err)
		} else {
			report.PlansCreated++
		}
	}
}

// migrateEnrollments converts the legacy enrolled_students array
func migrateEnrollments(crs *courseModels.Course, report *MigrationReport) {
	db := database.Database.Db

	var studentIDs []string
	if len(crs.EnrolledStudents) > 0 {
		if err := json.Unmarshal(crs.EnrolledStudents, &studentIDs); err != nil {
			log.Printf("[MIGRATION] bad enrolled_students payload on course %d: %v", crs.ID, err)
			return
		}
	}

	for _, userID := range studentIDs {
		var existing courseModels.Enrollment
		if err := db.Where("user_id = ? AND course_id = ?", userID, crs.ID).
			First(&existing).Error; err == nil {
			continue
		}

		enrollment := courseModels.Enrollment{
			UserID:     userID,
			CourseID:   crs.ID,
			PlanType:   courseModels.PlanStandard, // legacy enrollments default to standard
			Status:     courseModels.EnrollmentActive,
			EnrolledAt: crs.CreatedAt,
			ExpiresAt:  nil,
		}
		if err := db.Create(&enrollment).Error; err != nil {
			log.Printf("[MIGRATION] failed to create enrollment for user %s course %d: %v", userID, crs.ID, err)
			continue
		}
		report.EnrollmentsCreated++
	}
}

// migrateRatings converts the legacy course_ratings array
func migrateRatings(crs *courseModels.Course, report *MigrationReport) {
	db := database.Database.Db

	var legacy []courseModels.LegacyRating
	if len(crs.CourseRatings) > 0 {
		if err := json.Unmarshal(crs.CourseRatings, &legacy); err != nil {
			log.Printf("[MIGRATION] bad course_ratings payload on course %d: %v", crs.ID, err)
			return
		}
	}

	for _, lr := range legacy {
		var existing courseModels.Rating
		if err := db.Where("user_id = ? AND course_id = ?", lr.UserID, crs.ID).
			First(&existing).Error; err == nil {
			continue
		}

		rating := courseModels.Rating{
			UserID:             lr.UserID,
			CourseID:           crs.ID,
			Rating:             lr.Rating,
			IsVerifiedPurchase: true,
			Status:             courseModels.RatingPublished,
		}
		if err := db.Create(&rating).Error; err != nil {
			log.Printf("[MIGRATION] failed to create rating for user %s course %d: %v", lr.UserID, crs.ID, err)
			continue
		}
		report.RatingsCreated++
	}
}

// migrateContent converts the embedded chapters/lectures into Section
// and Lesson rows
func migrateContent(crs *courseModels.Course, report *MigrationReport) {
	db := database.Database.Db

	var chapters []courseModels.LegacyChapter
	if len(crs.CourseContent) > 0 {
		if err := json.Unmarshal(crs.CourseContent, &chapters); err != nil {
			log.Printf("[MIGRATION] bad course_content payload on course %d: %v", crs.ID, err)
			return
		}
	}

	for _, chapter := range chapters {
		var section courseModels.Section
		err := db.Where("course_id = ? AND section_id = ?", crs.ID, chapter.ChapterID).
			First(&section).Error
		if err != nil {
			section = courseModels.Section{
				CourseID:          crs.ID,
				SectionID:         chapter.ChapterID,
				Title:             chapter.ChapterTitle,
				LearningObjective: chapter.LearningObjective,
				OrderIndex:        chapter.ChapterOrder,
				IsPublished:       true,
			}
			if err := db.Create(&section).Error; err != nil {
				log.Printf("[MIGRATION] failed to create section %s for course %d: %v", chapter.ChapterID, crs.ID, err)
				continue
			}
			report.SectionsCreated++
		}

		for _, lecture := range chapter.ChapterContent {
			var existing courseModels.Lesson
			if err := db.Where("course_id = ? AND lecture_id = ?", crs.ID, lecture.LectureID).
				First(&existing).Error; err == nil {
				continue
			}

			lectureType := lecture.LectureType
			if lectureType == "" {
				lectureType = courseModels.LessonVideo
			}

			lesson := courseModels.Lesson{
				CourseID:  crs.ID,
				SectionID: section.ID,
				LectureID: lecture.LectureID,
				Title:     lecture.LectureTitle,
				Type:      lectureType,
				Content: courseModels.LessonContent{
					VideoURL: lecture.LectureURL,
					Duration: int64(lecture.LectureDuration * 60), // legacy minutes to seconds
					Text:     lecture.LectureContent,
				},
				AccessLevel:   courseModels.AccessStandard, // default access for migrated lessons
				IsPreviewFree: lecture.IsPreviewFree,
				OrderIndex:    lecture.LectureOrder,
				IsPublished:   true,
			}
			if err := db.Create(&lesson).Error; err != nil {
				log.Printf("[MIGRATION] failed to create lesson %s for course %d: %v", lecture.LectureID, crs.ID, err)
				continue
			}
			report.LessonsCreated++
		}
	}
}

func jsonArray(items ...string) []byte {
	b, _ := json.Marshal(items)
	return b
}
