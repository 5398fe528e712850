package utils

import (
	"encoding/json"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func seedLegacyCourse(t *testing.T, db *gorm.DB) courseModels.Course {
	t.Helper()

	content, err := json.Marshal([]courseModels.LegacyChapter{
		{
			ChapterID:    "ch-1",
			ChapterOrder: 1,
			ChapterTitle: "Getting Started",
			ChapterContent: []courseModels.LegacyLecture{
				{
					LectureID:       "lec-1",
					LectureTitle:    "Introduction",
					LectureDuration: 10.5, // minutes
					LectureURL:      "https://cdn.test.local/lec-1.mp4",
					IsPreviewFree:   true,
					LectureOrder:    1,
				},
				{
					LectureID:       "lec-2",
					LectureTitle:    "Setup",
					LectureDuration: 8,
					LectureURL:      "https://cdn.test.local/lec-2.mp4",
					LectureOrder:    2,
				},
			},
		},
		{
			ChapterID:    "ch-2",
			ChapterOrder: 2,
			ChapterTitle: "Basics",
			ChapterContent: []courseModels.LegacyLecture{
				{
					LectureID:       "lec-3",
					LectureTitle:    "Variables",
					LectureDuration: 12,
					LectureURL:      "https://cdn.test.local/lec-3.mp4",
					LectureOrder:    1,
				},
			},
		},
	})
	require.NoError(t, err)

	ratings, err := json.Marshal([]courseModels.LegacyRating{
		{UserID: "user_a", Rating: 5},
		{UserID: "user_b", Rating: 4},
	})
	require.NoError(t, err)

	crs := courseModels.Course{
		Title:            "Legacy Course",
		EducatorID:       "user_educator",
		Status:           courseModels.StatusPublished,
		CoursePrice:      100,
		Discount:         20,
		PremiumPrice:     150,
		CourseContent:    datatypes.JSON(content),
		EnrolledStudents: datatypes.JSON([]byte(`["user_a","user_b","user_c"]`)),
		CourseRatings:    datatypes.JSON(ratings),
	}
	require.NoError(t, db.Create(&crs).Error)
	return crs
}

func TestMigrateLegacyCourses(t *testing.T) {
	db := setupTestDB(t)

	crs := seedLegacyCourse(t, db)

	report, err := MigrateLegacyCourses()
	require.NoError(t, err)

	assert.Equal(t, 1, report.CoursesProcessed)
	assert.Equal(t, 2, report.PlansCreated)
	assert.Equal(t, 3, report.EnrollmentsCreated)
	assert.Equal(t, 2, report.RatingsCreated)
	assert.Equal(t, 2, report.SectionsCreated)
	assert.Equal(t, 3, report.LessonsCreated)

	// Plans carry cent prices derived from the legacy fields
	var standard courseModels.CoursePlan
	require.NoError(t, db.Where("course_id = ? AND plan_type = ?", crs.ID, courseModels.PlanStandard).First(&standard).Error)
	assert.Equal(t, int64(10000), standard.Price)
	assert.Equal(t, int64(20), standard.DiscountValue)
	assert.Equal(t, int64(8000), standard.FinalPrice())

	var premium courseModels.CoursePlan
	require.NoError(t, db.Where("course_id = ? AND plan_type = ?", crs.ID, courseModels.PlanPremium).First(&premium).Error)
	assert.Equal(t, int64(15000), premium.Price)
	assert.NotEmpty(t, premium.PremiumBenefits)

	// Lesson durations converted from minutes to seconds
	var lesson courseModels.Lesson
	require.NoError(t, db.Where("course_id = ? AND lecture_id = ?", crs.ID, "lec-1").First(&lesson).Error)
	assert.Equal(t, int64(630), lesson.Content.Duration)
	assert.True(t, lesson.IsPreviewFree)
	assert.Equal(t, courseModels.AccessStandard, lesson.AccessLevel)

	// Lessons hang off the right section
	var section courseModels.Section
	require.NoError(t, db.Where("course_id = ? AND section_id = ?", crs.ID, "ch-2").First(&section).Error)
	var sectionLessons int64
	db.Model(&courseModels.Lesson{}).Where("section_id = ?", section.ID).Count(&sectionLessons)
	assert.Equal(t, int64(1), sectionLessons)

	// Legacy enrollments land as standard lifetime enrollments
	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", "user_c", crs.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.PlanStandard, enrollment.PlanType)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)
	assert.Nil(t, enrollment.ExpiresAt)

	// Ratings become verified published rows
	var rating courseModels.Rating
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", "user_a", crs.ID).First(&rating).Error)
	assert.Equal(t, 5, rating.Rating)
	assert.True(t, rating.IsVerifiedPurchase)

	// Stats reflect the migrated rows
	var refreshed courseModels.Course
	require.NoError(t, db.First(&refreshed, crs.ID).Error)
	assert.Equal(t, int64(3), refreshed.Stats.TotalEnrollments)
	assert.Equal(t, 4.5, refreshed.Stats.AverageRating)
	assert.Equal(t, int64(2), refreshed.Stats.TotalRatings)
}

func TestMigrateLegacyCoursesIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	seedLegacyCourse(t, db)

	_, err := MigrateLegacyCourses()
	require.NoError(t, err)

	// A second run over migrated data creates nothing new
	second, err := MigrateLegacyCourses()
	require.NoError(t, err)

	assert.Equal(t, 1, second.CoursesProcessed)
	assert.Equal(t, 0, second.PlansCreated)
	assert.Equal(t, 0, second.EnrollmentsCreated)
	assert.Equal(t, 0, second.RatingsCreated)
	assert.Equal(t, 0, second.SectionsCreated)
	assert.Equal(t, 0, second.LessonsCreated)

	var enrollments int64
	db.Model(&courseModels.Enrollment{}).Count(&enrollments)
	assert.Equal(t, int64(3), enrollments)
}

func TestMigrateLegacyCoursesRoundsFractionalPrices(t *testing.T) {
	db := setupTestDB(t)

	crs := courseModels.Course{
		Title:           "Fractional Pricing",
		EducatorID:      "user_educator",
		Status:          courseModels.StatusPublished,
		CoursePrice:     19.99,
		PremiumPrice:    29.99,
		PremiumDiscount: 12.5,
	}
	require.NoError(t, db.Create(&crs).Error)

	legacyStandard := StandardPrice(&crs)
	assert.Equal(t, int64(1999), legacyStandard)

	_, err := MigrateLegacyCourses()
	require.NoError(t, err)

	// Migrated plans round to the nearest cent, matching what the
	// legacy fields were charging before migration
	var standard courseModels.CoursePlan
	require.NoError(t, db.Where("course_id = ? AND plan_type = ?", crs.ID, courseModels.PlanStandard).First(&standard).Error)
	assert.Equal(t, int64(1999), standard.Price)
	assert.Equal(t, legacyStandard, StandardPrice(&crs))

	var premium courseModels.CoursePlan
	require.NoError(t, db.Where("course_id = ? AND plan_type = ?", crs.ID, courseModels.PlanPremium).First(&premium).Error)
	assert.Equal(t, int64(2999), premium.Price)
	assert.Equal(t, int64(13), premium.DiscountValue)
}

func TestMigrateLegacyCoursesNormalizesStatus(t *testing.T) {
	db := setupTestDB(t)

	crs := seedLegacyCourse(t, db)
	// Simulate legacy uppercase status written before normalization existed
	require.NoError(t, db.Model(&courseModels.Course{}).Where("id = ?", crs.ID).
		UpdateColumn("status", "DRAFT").Error)

	_, err := MigrateLegacyCourses()
	require.NoError(t, err)

	var refreshed courseModels.Course
	require.NoError(t, db.First(&refreshed, crs.ID).Error)
	assert.Equal(t, courseModels.StatusDraft, refreshed.Status)
}

func TestMigrateLegacyCoursesSkipsPremiumPlanWithoutPrice(t *testing.T) {
	db := setupTestDB(t)

	crs := courseModels.Course{
		Title:       "Standard Only",
		EducatorID:  "user_educator",
		Status:      courseModels.StatusPublished,
		CoursePrice: 50,
	}
	require.NoError(t, db.Create(&crs).Error)

	report, err := MigrateLegacyCourses()
	require.NoError(t, err)
	assert.Equal(t, 1, report.PlansCreated)

	var premiumCount int64
	db.Model(&courseModels.CoursePlan{}).
		Where("course_id = ? AND plan_type = ?", crs.ID, courseModels.PlanPremium).
		Count(&premiumCount)
	assert.Equal(t, int64(0), premiumCount)
}
