package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleLearner    UserRole = "learner"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

// User is an account. Email is stored lower-cased so the unique index is
// effectively case-insensitive. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:36"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;default:learner;size:20;index"`

	ProfileID *string `json:"profile_id" gorm:"size:36"`

	// Denormalized side of the Account<->Course enrollment association.
	// Mutated only through the relationship service.
	EnrolledCourseIDs datatypes.JSONSlice[string] `json:"enrolled_courses"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Enrolled reports whether courseID is in the account's enrollment list.
func (u *User) Enrolled(courseID string) bool {
	for _, id := range u.EnrolledCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

type Profile struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	UserID    string `json:"user_id" gorm:"uniqueIndex;not null;size:36"`
	FirstName string `json:"first_name" gorm:"not null;size:50"`
	LastName  string `json:"last_name" gorm:"not null;size:50"`
	Bio       string `json:"bio" gorm:"size:500"`
	AvatarURL string `json:"avatar_url" gorm:"size:500"`
	Phone     string `json:"phone" gorm:"size:30"`
	Address   string `json:"address" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
