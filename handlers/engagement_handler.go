package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/otienodev/course_market/services"
)

type RateCourseRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type ReviewCourseRequest struct {
	Review string `json:"review" validate:"required,min=1"`
}

func PurchaseCourse(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	course, err := services.PurchaseCourse(userID, courseID)
	if err != nil {
		return engagementError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Course purchased successfully",
		"course":  course,
	})
}

func RateCourse(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var req RateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be a number between 1 and 5"})
	}

	course, err := services.RateCourse(userID, courseID, req.Rating)
	if err != nil {
		return engagementError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Course rated successfully",
		"course":  course,
	})
}

func ReviewCourse(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var req ReviewCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Review text is required"})
	}

	course, err := services.ReviewCourse(userID, courseID, req.Review)
	if err != nil {
		return engagementError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Course reviewed successfully",
		"course":  course,
	})
}

func GetEnrolledCourses(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	courses, err := services.EnrolledCourses(userID)
	if err != nil {
		return engagementError(c, err)
	}

	return c.JSON(fiber.Map{"courses": courses})
}

func engagementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCourseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, services.ErrAlreadyPurchased):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You already purchased this course"})
	case errors.Is(err, services.ErrNotEntitled):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You must purchase this course first"})
	case errors.Is(err, services.ErrInvalidRating):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be a number between 1 and 5"})
	}
	log.Printf("🔥 Engagement storage error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
}
