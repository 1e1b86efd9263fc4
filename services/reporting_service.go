package services

import (
	"github.com/otienodev/course_market/database"
	"github.com/otienodev/course_market/models"
)

const recentSampleSize = 5

type RecentCourse struct {
	CourseName    string  `json:"course_name"`
	StudentCount  int64   `json:"student_count"`
	CourseRevenue float64 `json:"course_revenue"`
}

type RecentEnrollment struct {
	StudentName string  `json:"student_name"`
	CourseName  string  `json:"course_name"`
	Amount      float64 `json:"amount"`
}

type DashboardAnalytics struct {
	TotalStudents     int64              `json:"total_students"`
	ActiveCourses     int64              `json:"active_courses"`
	TotalRevenue      float64            `json:"total_revenue"`
	RecentCourses     []RecentCourse     `json:"recent_courses"`
	RecentEnrollments []RecentEnrollment `json:"recent_enrollments"`
}

// DashboardReport aggregates the admin rollup on demand, straight from
// the tables. Revenue is price summed per enrollment row, so it always
// equals Σ price × purchaser count across the catalog.
func DashboardReport() (*DashboardAnalytics, error) {
	report := &DashboardAnalytics{
		RecentCourses:     []RecentCourse{},
		RecentEnrollments: []RecentEnrollment{},
	}

	if err := database.DB.Model(&models.Enrollment{}).
		Distinct("user_id").
		Count(&report.TotalStudents).Error; err != nil {
		return nil, err
	}

	if err := database.DB.Model(&models.Course{}).
		Count(&report.ActiveCourses).Error; err != nil {
		return nil, err
	}

	if err := database.DB.Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Select("COALESCE(SUM(courses.price), 0)").
		Scan(&report.TotalRevenue).Error; err != nil {
		return nil, err
	}

	type courseRow struct {
		Title        string
		Price        float64
		StudentCount int64
	}
	var courseRows []courseRow
	if err := database.DB.Model(&models.Course{}).
		Select("courses.title, courses.price, COUNT(enrollments.id) AS student_count").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Group("courses.id, courses.title, courses.price, courses.created_at").
		Order("courses.created_at DESC").
		Limit(recentSampleSize).
		Scan(&courseRows).Error; err != nil {
		return nil, err
	}
	for _, row := range courseRows {
		report.RecentCourses = append(report.RecentCourses, RecentCourse{
			CourseName:    row.Title,
			StudentCount:  row.StudentCount,
			CourseRevenue: row.Price * float64(row.StudentCount),
		})
	}

	// Ordered by per-purchase recency, not course update recency: each
	// enrollment row carries its own timestamp.
	if err := database.DB.Model(&models.Enrollment{}).
		Select("users.full_name AS student_name, courses.title AS course_name, courses.price AS amount").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Order("enrollments.id DESC").
		Limit(recentSampleSize).
		Scan(&report.RecentEnrollments).Error; err != nil {
		return nil, err
	}

	return report, nil
}
