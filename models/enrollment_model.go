package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment is one purchase fact: the user appears in the course's
// purchaser set and the course appears in the user's enrolled sequence
// through this single row. Row order is purchase order.
type Enrollment struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course" json:"course_id"`

	User   User   `gorm:"foreignkey:UserID" json:"-"`
	Course Course `gorm:"foreignkey:CourseID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
