package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/otienodev/course_market/services"
)

type TutorChatRequest struct {
	Query string `json:"query" validate:"required,min=1"`
}

func TutorChat(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	if services.Tutor == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Tutor is not available"})
	}

	var req TutorChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query is required"})
	}

	reply, err := services.Tutor.Ask(c.Context(), userID, req.Query)
	if err != nil {
		log.Printf("🔥 Tutor request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error calling tutor model"})
	}

	return c.JSON(fiber.Map{"reply": reply})
}
