package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Price          float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	InstructorName string    `gorm:"size:255;not null" json:"instructor_name"`
	VideoURL       string    `gorm:"size:512;not null" json:"video_url"`
	ThumbnailURL   *string   `gorm:"size:512" json:"thumbnail_url"`
	DiscordLink    *string   `gorm:"size:512" json:"discord_link"`

	// Derived from the ratings table; rewritten inside the same
	// transaction as every rating mutation.
	AverageRating float64 `gorm:"not null;default:0" json:"average_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
