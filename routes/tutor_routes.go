package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/otienodev/course_market/handlers"
	"github.com/otienodev/course_market/middleware"
)

func TutorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	tutor := api.Group("/tutor", middleware.Protected())
	tutor.Post("/chat", handlers.TutorChat)
}
