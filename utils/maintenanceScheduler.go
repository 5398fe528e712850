package utils

import (
	"log"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeMaintenanceScheduler sets up the daily maintenance job
func InitializeMaintenanceScheduler() {
	log.Println("[MAINTENANCE] Initializing maintenance scheduler...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		log.Println("[MAINTENANCE] Running daily maintenance...")
		ExpireEnrollments()
		RefreshPublishedCourseStats()
	})

	c.Start()
	log.Println("[MAINTENANCE] Maintenance scheduler started - runs daily at 3 AM")
}

// ExpireEnrollments marks active enrollments past their expiry as expired.
// Lifetime enrollments (expires_at null) are never touched.
func ExpireEnrollments() {
	db := database.Database.Db
	now := time.Now()

	result := db.Model(&courseModels.Enrollment{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", courseModels.EnrollmentActive, now).
		Update("status", courseModels.EnrollmentExpired)

	if result.Error != nil {
		log.Printf("[MAINTENANCE] Error expiring enrollments: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[MAINTENANCE] Expired %d enrollments", result.RowsAffected)
	}
}

// RefreshPublishedCourseStats recomputes the denormalized stats of all
// published courses. The recompute is replayable, so a failed run just
// delays the numbers until the next one.
func RefreshPublishedCourseStats() {
	db := database.Database.Db

	var courseIDs []uint
	if err := db.Model(&courseModels.Course{}).
		Where("status = ? AND is_deleted = ?", courseModels.StatusPublished, false).
		Pluck("id", &courseIDs).Error; err != nil {
		log.Printf("[MAINTENANCE] Error fetching published courses: %v", err)
		return
	}

	refreshed := 0
	for _, id := range courseIDs {
		if err := RecomputeCourseStats(id); err != nil {
			log.Printf("[MAINTENANCE] Error recomputing stats for course %d: %v", id, err)
			continue
		}
		refreshed++
	}
	log.Printf("[MAINTENANCE] Refreshed stats for %d courses", refreshed)
}
