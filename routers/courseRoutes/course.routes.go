package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (published courses only)
	courseGroup.Get("/list", controllers.GetPublishedCourses)
	courseGroup.Get("/:id", controllers.GetCourseDetails)

	// Ratings
	courseGroup.Get("/:id/ratings", controllers.GetCourseRatings)
	courseGroup.Post("/rating", middleware.JWTMiddleware, validators.AddCourseRating(), controllers.AddCourseRating)

	// Enrollments and progress
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetMyEnrollments)
	userGroup.Post("/progress", middleware.JWTMiddleware, validators.UpdateCourseProgress(), controllers.UpdateCourseProgress)
	userGroup.Get("/progress/:id", middleware.JWTMiddleware, controllers.GetCourseProgress)

	// Lesson delivery (access checked per plan)
	lessonGroup := app.Group("/lesson")
	lessonGroup.Get("/:lessonId", middleware.JWTMiddleware, controllers.GetLessonContent)
}
