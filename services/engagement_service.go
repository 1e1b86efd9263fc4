package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/otienodev/course_market/database"
	"github.com/otienodev/course_market/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyPurchased = errors.New("course already purchased")
	ErrNotEntitled      = errors.New("course must be purchased first")
	ErrInvalidRating    = errors.New("rating must be an integer between 1 and 5")
)

// CourseProjection is what engagement endpoints return: the course plus
// the purchaser count derived from the enrollments table.
type CourseProjection struct {
	models.Course
	PurchaserCount int64 `json:"purchaser_count"`
}

// PurchaseCourse records the purchase fact for (userID, courseID). The
// existence check and the enrollment insert run in one transaction; the
// composite unique index on enrollments turns a concurrent double-submit
// into ErrAlreadyPurchased rather than a second row, so client retries
// are safe.
func PurchaseCourse(userID, courseID uuid.UUID) (*CourseProjection, error) {
	var course models.Course

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&course, "id = ?", courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var userCount int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&userCount).Error; err != nil {
			return err
		}
		if userCount == 0 {
			return ErrUserNotFound
		}

		var existing int64
		if err := tx.Model(&models.Enrollment{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyPurchased
		}

		enrollment := models.Enrollment{UserID: userID, CourseID: courseID}
		if err := tx.Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyPurchased
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return projectCourse(database.DB, course)
}

// RateCourse upserts the caller's score and rewrites the course average
// from the stored ratings in the same transaction, so the denormalized
// figure can never drift from the authoritative rows. The course row is
// read FOR UPDATE: concurrent ratings on the same course serialize, so
// each AVG sees every committed row and the last write is never stale.
func RateCourse(userID, courseID uuid.UUID, value int) (*CourseProjection, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRating
	}

	var course models.Course

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, "id = ?", courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		if err := requireEnrollment(tx, userID, courseID); err != nil {
			return err
		}

		rating := models.Rating{UserID: userID, CourseID: courseID, Value: value}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rating).Error; err != nil {
			return err
		}

		var average float64
		if err := tx.Model(&models.Rating{}).
			Where("course_id = ?", courseID).
			Select("COALESCE(AVG(value), 0)").
			Scan(&average).Error; err != nil {
			return err
		}

		course.AverageRating = average
		return tx.Model(&models.Course{}).
			Where("id = ?", courseID).
			Update("average_rating", average).Error
	})
	if err != nil {
		return nil, err
	}

	return projectCourse(database.DB, course)
}

// ReviewCourse upserts the caller's review text, one review per
// (user, course), gated on purchase like ratings.
func ReviewCourse(userID, courseID uuid.UUID, comment string) (*CourseProjection, error) {
	var course models.Course

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, "id = ?", courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		if err := requireEnrollment(tx, userID, courseID); err != nil {
			return err
		}

		review := models.Review{UserID: userID, CourseID: courseID, Comment: comment}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"comment", "updated_at"}),
		}).Create(&review).Error
	})
	if err != nil {
		return nil, err
	}

	return projectCourse(database.DB, course)
}

// EnrolledCourses returns the user's purchased courses in purchase order.
func EnrolledCourses(userID uuid.UUID) ([]models.Course, error) {
	var userCount int64
	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Count(&userCount).Error; err != nil {
		return nil, err
	}
	if userCount == 0 {
		return nil, ErrUserNotFound
	}

	courses := []models.Course{}
	err := database.DB.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// CourseRatings lists the stored per-user scores for a course.
func CourseRatings(courseID uuid.UUID) ([]models.Rating, error) {
	ratings := []models.Rating{}
	err := database.DB.Where("course_id = ?", courseID).Order("updated_at DESC").Find(&ratings).Error
	return ratings, err
}

// CourseReviews lists the stored per-user reviews for a course.
func CourseReviews(courseID uuid.UUID) ([]models.Review, error) {
	reviews := []models.Review{}
	err := database.DB.Where("course_id = ?", courseID).Order("updated_at DESC").Find(&reviews).Error
	return reviews, err
}

func requireEnrollment(tx *gorm.DB, userID, courseID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotEntitled
	}
	return nil
}

func projectCourse(db *gorm.DB, course models.Course) (*CourseProjection, error) {
	var purchasers int64
	if err := db.Model(&models.Enrollment{}).
		Where("course_id = ?", course.ID).
		Count(&purchasers).Error; err != nil {
		return nil, err
	}

	// Pick up the average written inside the transaction.
	if err := db.First(&course, "id = ?", course.ID).Error; err != nil {
		return nil, err
	}

	return &CourseProjection{Course: course, PurchaserCount: purchasers}, nil
}
