package educatorRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupEducatorRoutes sets up all educator course management routes
func SetupEducatorRoutes(app *fiber.App) {
	educatorGroup := app.Group("/educator")

	// Role switch is open to any authenticated user
	educatorGroup.Post("/update-role", middleware.JWTMiddleware, controllers.UpdateRoleToEducator)

	// Course management
	educatorGroup.Post("/add-course", middleware.JWTMiddleware, middleware.RequireRole(models.RoleEducator), controllers.AddCourse)
	educatorGroup.Post("/course/:id/publish", middleware.JWTMiddleware, middleware.RequireRole(models.RoleEducator), controllers.PublishCourse)
	educatorGroup.Post("/course/:id/archive", middleware.JWTMiddleware, middleware.RequireRole(models.RoleEducator), controllers.ArchiveCourse)
	educatorGroup.Get("/courses", middleware.JWTMiddleware, middleware.RequireRole(models.RoleEducator), controllers.GetEducatorCourses)

	// Pricing plans
	educatorGroup.Post("/course-plan", middleware.JWTMiddleware, middleware.RequireRole(models.RoleEducator), validators.SetCoursePlan(), controllers.SetCoursePlan)

	// Dashboard
	educatorGroup.Get("/dashboard", middleware.JWTMiddleware, middleware.RequireRole(models.RoleEducator), controllers.EducatorDashboard)
	educatorGroup.Get("/enrolled-students", middleware.JWTMiddleware, middleware.RequireRole(models.RoleEducator), controllers.GetEnrolledStudentsData)
}
