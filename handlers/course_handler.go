package handlers

import (
	"context"
	"mime/multipart"
	"strconv"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/otienodev/course_market/configs"
	"github.com/otienodev/course_market/database"
	"github.com/otienodev/course_market/models"
	"github.com/otienodev/course_market/services"
	"gorm.io/gorm"
)

const (
	videoFolder     = "course-videos"
	thumbnailFolder = "course-thumbnails"
)

type CreateCourseRequest struct {
	Title       string  `validate:"required,min=3"`
	Description string  `validate:"required"`
	Price       float64 `validate:"gte=0"`
	DiscordLink string  `validate:"omitempty,url"`
}

func ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := database.DB.Order("created_at DESC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	return c.JSON(courses)
}

func GetCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	ratings, err := services.CourseRatings(courseID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	reviews, err := services.CourseReviews(courseID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}

	return c.JSON(fiber.Map{
		"course":  course,
		"ratings": ratings,
		"reviews": reviews,
	})
}

func CreateCourse(c *fiber.Ctx) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	var admin models.User
	if err := database.DB.First(&admin, "id = ?", adminID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instructor not found"})
	}

	price, err := strconv.ParseFloat(c.FormValue("price", "0"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be a number"})
	}

	req := CreateCourseRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Price:       price,
		DiscordLink: c.FormValue("discord_link"),
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Video file is required"})
	}

	videoURL, err := uploadMedia(c.Context(), videoFile, videoFolder, "video")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload video"})
	}

	course := models.Course{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		InstructorName: admin.FullName,
		VideoURL:       videoURL,
	}
	if req.DiscordLink != "" {
		course.DiscordLink = &req.DiscordLink
	}

	if thumbFile, err := c.FormFile("thumbnail"); err == nil {
		thumbURL, err := uploadMedia(c.Context(), thumbFile, thumbnailFolder, "image")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload thumbnail"})
		}
		course.ThumbnailURL = &thumbURL
	}

	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Course created successfully",
		"course":  course,
	})
}

// UpdateCourse merges the provided form fields into the course; omitted
// fields keep their stored values.
func UpdateCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	if title := c.FormValue("title"); title != "" {
		course.Title = title
	}
	if description := c.FormValue("description"); description != "" {
		course.Description = description
	}
	if rawPrice := c.FormValue("price"); rawPrice != "" {
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil || price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be a non-negative number"})
		}
		course.Price = price
	}
	if link := c.FormValue("discord_link"); link != "" {
		course.DiscordLink = &link
	}

	if videoFile, err := c.FormFile("video"); err == nil {
		videoURL, err := uploadMedia(c.Context(), videoFile, videoFolder, "video")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload video"})
		}
		course.VideoURL = videoURL
	}
	if thumbFile, err := c.FormFile("thumbnail"); err == nil {
		thumbURL, err := uploadMedia(c.Context(), thumbFile, thumbnailFolder, "image")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload thumbnail"})
		}
		course.ThumbnailURL = &thumbURL
	}

	if err := database.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update course"})
	}

	return c.JSON(fiber.Map{
		"message": "Course updated successfully",
		"course":  course,
	})
}

// DeleteCourse removes the course and cascades its enrollments, ratings
// and reviews in one transaction, so no user is left holding a dangling
// course id. Issued certificates are kept: they snapshot the course
// title and student name and stay publicly verifiable by serial after
// the course is gone.
func DeleteCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Course{}, "id = ?", courseID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("course_id = ?", courseID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		return tx.Where("course_id = ?", courseID).Delete(&models.Review{}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete course"})
	}

	return c.JSON(fiber.Map{"message": "Course deleted successfully"})
}

func uploadMedia(ctx context.Context, file *multipart.FileHeader, folder, resourceType string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	result, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:       folder,
		ResourceType: resourceType,
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
