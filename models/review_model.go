package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_course" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_course" json:"course_id"`
	Comment  string    `gorm:"type:text;not null" json:"comment"`

	User   User   `gorm:"foreignkey:UserID" json:"-"`
	Course Course `gorm:"foreignkey:CourseID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
