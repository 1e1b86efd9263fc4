package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/otienodev/course_market/handlers"
	"github.com/otienodev/course_market/middleware"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	courses := api.Group("/courses")
	courses.Get("", handlers.ListCourses)

	// Registered before "/:id" so "enrolled" is not parsed as a course id.
	courses.Get("/enrolled", middleware.Protected(), handlers.GetEnrolledCourses)
	courses.Get("/:id", handlers.GetCourse)

	courses.Post("/:id/purchase", middleware.Protected(), handlers.PurchaseCourse)
	courses.Post("/:id/rate", middleware.Protected(), handlers.RateCourse)
	courses.Post("/:id/review", middleware.Protected(), handlers.ReviewCourse)
	courses.Post("/:id/certificate", middleware.Protected(), handlers.IssueCertificate)

	courses.Post("", middleware.Protected(), middleware.AdminRequired(), handlers.CreateCourse)
	courses.Put("/:id", middleware.Protected(), middleware.AdminRequired(), handlers.UpdateCourse)
	courses.Delete("/:id", middleware.Protected(), middleware.AdminRequired(), handlers.DeleteCourse)

	api.Get("/certificates/verify", handlers.VerifyCertificate)
}
