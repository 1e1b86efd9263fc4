package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/otienodev/course_market/database"
	"github.com/otienodev/course_market/models"
	"github.com/otienodev/course_market/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	require.NoError(t, os.Setenv("JWT_SECRET", testSecret))

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

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.CourseRoutes(app)
	routes.AdminRoutes(app)
	return app
}

func createUser(t *testing.T, name, role string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		FullName: name,
		Email:    name + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func createCourse(t *testing.T, title string, price float64) models.Course {
	t.Helper()
	course := models.Course{
		Title:          title,
		Description:    "test course",
		Price:          price,
		InstructorName: "Test Instructor",
		VideoURL:       "https://cdn.example.com/video.mp4",
	}
	require.NoError(t, database.DB.Create(&course).Error)
	return course
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (map[string]interface{}, int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return result, resp.StatusCode
}

func TestPurchaseEndpoint(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "alice", models.RoleStudent)
	course := createCourse(t, "Go Basics", 100)
	token := tokenFor(t, user)

	result, status := doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/purchase", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Course purchased successfully", result["message"])

	courseBody := result["course"].(map[string]interface{})
	assert.Equal(t, float64(1), courseBody["purchaser_count"])

	result, status = doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/purchase", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "You already purchased this course", result["error"])
}

func TestPurchaseRequiresAuth(t *testing.T) {
	app := setupApp(t)
	course := createCourse(t, "Go Basics", 100)

	_, status := doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/purchase", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestPurchaseUnknownCourseEndpoint(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "alice", models.RoleStudent)
	token := tokenFor(t, user)

	_, status := doJSON(t, app, "POST", "/api/v1/courses/9c9d4dc3-8b52-4a5e-b8f3-1c2d3e4f5a6b/purchase", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRateEndpoint(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "alice", models.RoleStudent)
	course := createCourse(t, "Go Basics", 100)
	token := tokenFor(t, user)

	// Rating before purchasing is rejected.
	_, status := doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/rate", token,
		map[string]interface{}{"rating": 4})
	assert.Equal(t, fiber.StatusForbidden, status)

	_, status = doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/purchase", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	_, status = doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/rate", token,
		map[string]interface{}{"rating": 6})
	assert.Equal(t, fiber.StatusBadRequest, status)

	result, status := doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/rate", token,
		map[string]interface{}{"rating": 4})
	assert.Equal(t, fiber.StatusOK, status)

	courseBody := result["course"].(map[string]interface{})
	assert.InDelta(t, 4.0, courseBody["average_rating"].(float64), 1e-9)
}

func TestReviewEndpoint(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "alice", models.RoleStudent)
	course := createCourse(t, "Go Basics", 100)
	token := tokenFor(t, user)

	_, status := doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/review", token,
		map[string]interface{}{"review": "solid material"})
	assert.Equal(t, fiber.StatusForbidden, status)

	_, status = doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/purchase", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	result, status := doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/review", token,
		map[string]interface{}{"review": "solid material"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Course reviewed successfully", result["message"])
}

func TestEnrolledCoursesEndpoint(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "alice", models.RoleStudent)
	courseA := createCourse(t, "Course A", 50)
	courseB := createCourse(t, "Course B", 75)
	token := tokenFor(t, user)

	_, status := doJSON(t, app, "POST", "/api/v1/courses/"+courseA.ID.String()+"/purchase", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	_, status = doJSON(t, app, "POST", "/api/v1/courses/"+courseB.ID.String()+"/purchase", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	result, status := doJSON(t, app, "GET", "/api/v1/courses/enrolled", token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	courses := result["courses"].([]interface{})
	require.Len(t, courses, 2)
	assert.Equal(t, "Course A", courses[0].(map[string]interface{})["title"])
	assert.Equal(t, "Course B", courses[1].(map[string]interface{})["title"])
}

func TestDashboardEndpointRoles(t *testing.T) {
	app := setupApp(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	student := createUser(t, "bob", models.RoleStudent)

	_, status := doJSON(t, app, "GET", "/api/v1/admin/dashboard", tokenFor(t, student), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	result, status := doJSON(t, app, "GET", "/api/v1/admin/dashboard", tokenFor(t, admin), nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, result, "total_students")
	assert.Contains(t, result, "active_courses")
	assert.Contains(t, result, "total_revenue")
	assert.Contains(t, result, "recent_courses")
	assert.Contains(t, result, "recent_enrollments")
}

func TestDeleteCourseCascadesButKeepsCertificates(t *testing.T) {
	app := setupApp(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	student := createUser(t, "alice", models.RoleStudent)
	course := createCourse(t, "Go Basics", 100)
	token := tokenFor(t, student)

	_, status := doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/purchase", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	_, status = doJSON(t, app, "POST", "/api/v1/courses/"+course.ID.String()+"/rate", token,
		map[string]interface{}{"rating": 5})
	require.Equal(t, fiber.StatusOK, status)

	cert := models.Certificate{
		Serial:      "TESTSERIAL",
		UserID:      student.ID,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		StudentName: student.FullName,
		PdfURL:      "https://cdn.example.com/cert.pdf",
	}
	require.NoError(t, database.DB.Create(&cert).Error)

	_, status = doJSON(t, app, "DELETE", "/api/v1/courses/"+course.ID.String(), tokenFor(t, admin), nil)
	require.Equal(t, fiber.StatusOK, status)

	var count int64
	require.NoError(t, database.DB.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, database.DB.Model(&models.Rating{}).Where("course_id = ?", course.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// The issued certificate outlives the course and stays verifiable.
	require.NoError(t, database.DB.Model(&models.Certificate{}).Where("course_id = ?", course.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	result, status := doJSON(t, app, "GET", "/api/v1/certificates/verify?serial=TESTSERIAL", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Go Basics", result["course_title"])
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	result, status := doJSON(t, app, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"full_name": "Jane Doe",
		"email":     "jane@example.com",
		"password":  "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "student", result["role"])

	result, status = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, result["token"])
}

func TestListAndGetCourseEndpoints(t *testing.T) {
	app := setupApp(t)
	course := createCourse(t, "Go Basics", 100)

	req := httptest.NewRequest("GET", "/api/v1/courses", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listed []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Go Basics", listed[0]["title"])

	result, status := doJSON(t, app, "GET", "/api/v1/courses/"+course.ID.String(), "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Go Basics", result["course"].(map[string]interface{})["title"])

	_, status = doJSON(t, app, "GET", "/api/v1/courses/9c9d4dc3-8b52-4a5e-b8f3-1c2d3e4f5a6b", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
