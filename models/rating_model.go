package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating holds at most one score per (user, course); writes are upserts.
type Rating struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_course" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_course" json:"course_id"`
	Value    int       `gorm:"not null;check:value >= 1 AND value <= 5" json:"value"`

	User   User   `gorm:"foreignkey:UserID" json:"-"`
	Course Course `gorm:"foreignkey:CourseID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
