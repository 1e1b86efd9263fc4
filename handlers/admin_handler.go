package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/otienodev/course_market/database"
	"github.com/otienodev/course_market/models"
	"github.com/otienodev/course_market/services"
)

func GetDashboardAnalytics(c *fiber.Ctx) error {
	report, err := services.DashboardReport()
	if err != nil {
		log.Printf("🔥 Failed to build dashboard report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error. Please try again."})
	}
	return c.JSON(report)
}

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, UserResponse{
			ID:        user.ID.String(),
			FullName:  user.FullName,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		})
	}
	return c.JSON(responses)
}
