package services

import (
	"testing"

	"github.com/otienodev/course_market/database"
	"github.com/otienodev/course_market/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardReportSingleCourseScenario(t *testing.T) {
	setupTestDB(t)
	course := createTestCourse(t, "Go Basics", 100)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	carol := createTestUser(t, "carol")

	for _, user := range []models.User{alice, bob, carol} {
		_, err := PurchaseCourse(user.ID, course.ID)
		require.NoError(t, err)
	}

	_, err := RateCourse(alice.ID, course.ID, 4)
	require.NoError(t, err)
	_, err = RateCourse(bob.ID, course.ID, 2)
	require.NoError(t, err)

	report, err := DashboardReport()
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.TotalStudents)
	assert.Equal(t, int64(1), report.ActiveCourses)
	assert.InDelta(t, 300.0, report.TotalRevenue, 1e-9)

	require.Len(t, report.RecentCourses, 1)
	assert.Equal(t, "Go Basics", report.RecentCourses[0].CourseName)
	assert.Equal(t, int64(3), report.RecentCourses[0].StudentCount)
	assert.InDelta(t, 300.0, report.RecentCourses[0].CourseRevenue, 1e-9)

	var stored models.Course
	require.NoError(t, database.DB.First(&stored, "id = ?", course.ID).Error)
	assert.InDelta(t, 3.0, stored.AverageRating, 1e-9)
}

func TestDashboardReportTwoCourseScenario(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")
	courseA := createTestCourse(t, "Course A", 50)
	courseB := createTestCourse(t, "Course B", 75)

	_, err := PurchaseCourse(user.ID, courseA.ID)
	require.NoError(t, err)
	_, err = PurchaseCourse(user.ID, courseB.ID)
	require.NoError(t, err)

	report, err := DashboardReport()
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.TotalStudents)
	assert.Equal(t, int64(2), report.ActiveCourses)
	assert.GreaterOrEqual(t, report.TotalRevenue, 125.0)
}

func TestDashboardReportRecentEnrollmentsOrderedByPurchase(t *testing.T) {
	setupTestDB(t)
	courseA := createTestCourse(t, "Course A", 10)
	courseB := createTestCourse(t, "Course B", 20)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	_, err := PurchaseCourse(alice.ID, courseA.ID)
	require.NoError(t, err)
	_, err = PurchaseCourse(bob.ID, courseA.ID)
	require.NoError(t, err)
	_, err = PurchaseCourse(alice.ID, courseB.ID)
	require.NoError(t, err)

	report, err := DashboardReport()
	require.NoError(t, err)

	require.Len(t, report.RecentEnrollments, 3)
	// Most recent purchase first.
	assert.Equal(t, "alice", report.RecentEnrollments[0].StudentName)
	assert.Equal(t, "Course B", report.RecentEnrollments[0].CourseName)
	assert.InDelta(t, 20.0, report.RecentEnrollments[0].Amount, 1e-9)
	assert.Equal(t, "Course A", report.RecentEnrollments[1].CourseName)
}

func TestDashboardReportTruncatesRecentEnrollments(t *testing.T) {
	setupTestDB(t)
	course := createTestCourse(t, "Popular Course", 5)

	names := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"}
	for _, name := range names {
		user := createTestUser(t, name)
		_, err := PurchaseCourse(user.ID, course.ID)
		require.NoError(t, err)
	}

	report, err := DashboardReport()
	require.NoError(t, err)

	assert.Len(t, report.RecentEnrollments, 5)
	assert.Equal(t, "u7", report.RecentEnrollments[0].StudentName)
	assert.Equal(t, int64(7), report.TotalStudents)
}
