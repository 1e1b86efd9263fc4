package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/otienodev/course_market/services"
	"gorm.io/gorm"
)

func IssueCertificate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	cert, err := services.IssueCertificate(userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound), errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		case errors.Is(err, services.ErrNotEntitled):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You must purchase this course first"})
		}
		log.Printf("🔥 Failed to issue certificate: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue certificate"})
	}

	return c.JSON(fiber.Map{
		"message":     "Certificate issued successfully",
		"certificate": cert,
	})
}

func VerifyCertificate(c *fiber.Ctx) error {
	serial := c.Query("serial")
	if serial == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "serial is required"})
	}

	cert, err := services.VerifyCertificate(serial)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}

	return c.JSON(fiber.Map{
		"serial":       cert.Serial,
		"student_name": cert.StudentName,
		"course_title": cert.CourseTitle,
		"issued_at":    cert.CreatedAt,
		"pdf_url":      cert.PdfURL,
	})
}
