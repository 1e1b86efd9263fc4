package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Certificate struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Serial      string    `gorm:"size:20;not null;unique" json:"serial"`
	UserID      uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null" json:"course_id"`
	CourseTitle string    `gorm:"size:255;not null" json:"course_title"`
	StudentName string    `gorm:"size:255;not null" json:"student_name"`
	PdfURL      string    `gorm:"size:512;not null" json:"pdf_url"`

	User   User   `gorm:"foreignkey:UserID" json:"-"`
	Course Course `gorm:"foreignkey:CourseID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
