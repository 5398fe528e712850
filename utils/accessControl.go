package utils

import (
	"lms/database"
	courseModels "lms/models/course"
)

// CanAccessLesson decides whether a user may view a lesson. Free and
// preview lessons are open to everyone; everything else requires an
// active enrollment, and premium lessons additionally require the
// premium plan tier. Read-only, no side effects.
func CanAccessLesson(lessonID uint, userID string) bool {
	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		return false
	}

	// Public preview carve-out: no enrollment required
	if lesson.AccessLevel == courseModels.AccessFree || lesson.IsPreviewFree {
		return true
	}

	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND status = ?",
		userID, lesson.CourseID, courseModels.EnrollmentActive).First(&enrollment).Error
	if err != nil {
		return false
	}

	// Any active enrollment unlocks the standard tier
	if lesson.AccessLevel == courseModels.AccessStandard {
		return true
	}

	// Premium lessons need the premium plan
	return lesson.AccessLevel == courseModels.AccessPremium &&
		enrollment.PlanType == courseModels.PlanPremium
}

// HasActiveEnrollment reports whether the user holds an active
// enrollment for the course
func HasActiveEnrollment(userID string, courseID uint) bool {
	var count int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ?",
			userID, courseID, courseModels.EnrollmentActive).
		Count(&count)
	return count > 0
}

// HasPremiumAccess reports whether the user holds an active premium
// enrollment for the course
func HasPremiumAccess(userID string, courseID uint) bool {
	var count int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ? AND plan_type = ?",
			userID, courseID, courseModels.EnrollmentActive, courseModels.PlanPremium).
		Count(&count)
	return count > 0
}
