package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category is a taxonomy entry. CourseIDs is the redundant reverse of
// Course.CategoryIDs and is maintained by the relationship service.
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:50"`
	Description string `json:"description" gorm:"size:200"`

	CourseIDs datatypes.JSONSlice[string] `json:"courses"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (cat *Category) BeforeCreate(tx *gorm.DB) error {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	return nil
}

func (cat *Category) HasCourse(courseID string) bool {
	for _, id := range cat.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
