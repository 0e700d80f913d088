package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating left by one account on one course. The composite unique
// index enforces at most one review per (account, course) pair.
type Review struct {
	ID      string `json:"id" gorm:"primaryKey;size:36"`
	Rating  int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string `json:"comment" gorm:"size:1000"`

	UserID   string `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_reviews_user_course"`
	CourseID string `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_reviews_user_course;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
