package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/otienodev/course_market/handlers"
	"github.com/otienodev/course_market/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/dashboard", handlers.GetDashboardAnalytics)
	admin.Get("/users", handlers.GetAllUsers)
}
