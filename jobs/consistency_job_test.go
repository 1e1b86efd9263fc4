package jobs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/otienodev/course_market/database"
	"github.com/otienodev/course_market/models"
	"github.com/otienodev/course_market/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJobDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.Rating{},
		&models.Review{},
		&models.Certificate{},
	))
	database.DB = db
}

func TestReconcileHealsDriftedAverage(t *testing.T) {
	setupJobDB(t)

	user := models.User{FullName: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, database.DB.Create(&user).Error)
	course := models.Course{Title: "Go Basics", Price: 100, InstructorName: "T", VideoURL: "https://cdn.example.com/v.mp4"}
	require.NoError(t, database.DB.Create(&course).Error)

	_, err := services.PurchaseCourse(user.ID, course.ID)
	require.NoError(t, err)
	_, err = services.RateCourse(user.ID, course.ID, 4)
	require.NoError(t, err)

	// Simulate drift in the denormalized column.
	require.NoError(t, database.DB.Model(&models.Course{}).
		Where("id = ?", course.ID).
		Update("average_rating", 1.5).Error)

	ReconcileEngagementState()

	var healed models.Course
	require.NoError(t, database.DB.First(&healed, "id = ?", course.ID).Error)
	assert.InDelta(t, 4.0, healed.AverageRating, 1e-9)
}

func TestReconcileRemovesOrphanedRows(t *testing.T) {
	setupJobDB(t)

	user := models.User{FullName: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, database.DB.Create(&user).Error)
	course := models.Course{Title: "Go Basics", Price: 100, InstructorName: "T", VideoURL: "https://cdn.example.com/v.mp4"}
	require.NoError(t, database.DB.Create(&course).Error)

	_, err := services.PurchaseCourse(user.ID, course.ID)
	require.NoError(t, err)

	// A one-sided row referencing a course that no longer exists.
	orphan := models.Enrollment{UserID: user.ID, CourseID: uuid.New()}
	require.NoError(t, database.DB.Create(&orphan).Error)

	ReconcileEngagementState()

	var count int64
	require.NoError(t, database.DB.Model(&models.Enrollment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var remaining models.Enrollment
	require.NoError(t, database.DB.First(&remaining).Error)
	assert.Equal(t, course.ID, remaining.CourseID)
}
