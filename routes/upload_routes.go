package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/otienodev/course_market/handlers"
	"github.com/otienodev/course_market/middleware"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	uploads := api.Group("/uploads", middleware.Protected(), middleware.AdminRequired())
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
