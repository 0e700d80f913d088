package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

type Course struct {
	ID            string      `json:"id" gorm:"primaryKey;size:36"`
	Title         string      `json:"title" gorm:"not null;size:100;index"`
	Description   string      `json:"description" gorm:"type:text"`
	Price         float64     `json:"price" gorm:"not null;default:0;check:price >= 0"`
	Level         CourseLevel `json:"level" gorm:"not null;default:beginner;size:20"`
	DurationHours int         `json:"duration_hours" gorm:"default:0"`

	// Owning instructor. Set from the acting principal on create and never
	// updated afterwards.
	InstructorID string `json:"instructor_id" gorm:"not null;index;size:36"`

	// Denormalized sides of the two many-to-many associations. Mutated only
	// through the relationship service so both collections stay mutual.
	CategoryIDs        datatypes.JSONSlice[string] `json:"categories"`
	EnrolledStudentIDs datatypes.JSONSlice[string] `json:"enrolled_students"`

	Published bool `json:"published" gorm:"not null;default:false;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Instructor *User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`

	// Computed fields (not stored)
	AverageRating float64  `json:"average_rating" gorm:"-"`
	ReviewCount   int      `json:"review_count" gorm:"-"`
	CategoryNames []string `json:"category_names,omitempty" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// HasStudent reports whether userID is in the course's enrolled list.
func (c *Course) HasStudent(userID string) bool {
	for _, id := range c.EnrolledStudentIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Course) HasCategory(categoryID string) bool {
	for _, id := range c.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
