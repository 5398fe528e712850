package utils

import (
	"math"

	"lms/database"
	courseModels "lms/models/course"
)

// RecomputeCourseStats rebuilds the denormalized stats block of a
// course from the Enrollment, Rating and Purchase tables. Always a full
// recount so repeated calls converge on the same numbers.
func RecomputeCourseStats(courseID uint) error {
	db := database.Database.Db

	// Active enrollments grouped by plan tier
	type planCount struct {
		PlanType string
		Count    int64
	}
	var counts []planCount
	if err := db.Model(&courseModels.Enrollment{}).
		Select("plan_type, count(*) as count").
		Where("course_id = ? AND status = ?", courseID, courseModels.EnrollmentActive).
		Group("plan_type").
		Scan(&counts).Error; err != nil {
		return err
	}

	stats := courseModels.CourseStats{}
	for _, pc := range counts {
		switch pc.PlanType {
		case courseModels.PlanPremium:
			stats.PremiumEnrollments = pc.Count
		default:
			stats.StandardEnrollments = pc.Count
		}
		stats.TotalEnrollments += pc.Count
	}

	// Published ratings averaged to one decimal
	type ratingAgg struct {
		Average float64
		Count   int64
	}
	var ra ratingAgg
	if err := db.Model(&courseModels.Rating{}).
		Select("coalesce(avg(rating), 0) as average, count(*) as count").
		Where("course_id = ? AND status = ?", courseID, courseModels.RatingPublished).
		Scan(&ra).Error; err != nil {
		return err
	}
	stats.AverageRating = math.Round(ra.Average*10) / 10
	stats.TotalRatings = ra.Count

	// Revenue: completed purchase amounts
	var revenue int64
	if err := db.Model(&courseModels.Purchase{}).
		Select("coalesce(sum(amount), 0)").
		Where("course_id = ? AND status = ?", courseID, courseModels.PurchaseCompleted).
		Scan(&revenue).Error; err != nil {
		return err
	}
	stats.TotalRevenue = revenue

	// Single write of all counters
	return db.Model(&courseModels.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"stats_total_enrollments":    stats.TotalEnrollments,
			"stats_standard_enrollments": stats.StandardEnrollments,
			"stats_premium_enrollments":  stats.PremiumEnrollments,
			"stats_average_rating":       stats.AverageRating,
			"stats_total_ratings":        stats.TotalRatings,
			"stats_total_revenue":        stats.TotalRevenue,
		}).Error
}
