package main

import (
	"lms/config"
	"lms/database"
	"lms/utils"
	"log"
)

func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	log.Printf("Starting legacy schema migration...")

	report, err := utils.MigrateLegacyCourses()
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Printf("=== Migration Complete ===")
	log.Printf("Courses processed: %d", report.CoursesProcessed)
	log.Printf("Plans created: %d", report.PlansCreated)
	log.Printf("Enrollments created: %d", report.EnrollmentsCreated)
	log.Printf("Ratings created: %d", report.RatingsCreated)
	log.Printf("Sections created: %d", report.SectionsCreated)
	log.Printf("Lessons created: %d", report.LessonsCreated)
}
