package validator

import (
	"github.com/SAP-F-2025/marketplace-service/internal/models"
)

// RegisterRequest represents the request structure for account registration.
// Admin is not an accepted role here: admin accounts are promoted by an
// existing admin through the user update path.
type RegisterRequest struct {
	Email     string           `json:"email" validate:"required,email,max=255"`
	Password  string           `json:"password" validate:"required,min=6,max=72"`
	FirstName string           `json:"first_name" validate:"required,max=50"`
	LastName  string           `json:"last_name" validate:"required,max=50"`
	Role      *models.UserRole `json:"role" validate:"omitempty,oneof=learner instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserUpdateRequest represents the request structure for updating accounts.
// Role changes are additionally gated to admin principals in the service.
type UserUpdateRequest struct {
	Email    *string          `json:"email" validate:"omitempty,email,max=255"`
	Password *string          `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *models.UserRole `json:"role" validate:"omitempty,oneof=learner instructor admin"`
}

type ProfileUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=500"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
}

type CourseCreateRequest struct {
	Title         string              `json:"title" validate:"required,min=1,max=100"`
	Description   string              `json:"description" validate:"omitempty,max=2000"`
	Price         float64             `json:"price" validate:"gte=0"`
	Level         *models.CourseLevel `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationHours int                 `json:"duration_hours" validate:"gte=0"`
	CategoryIDs   []string            `json:"categories"`
	Published     *bool               `json:"published"`
}

// CourseUpdateRequest uses pointers so that absent fields are left untouched.
// A nil CategoryIDs means the category association is not resynchronized.
type CourseUpdateRequest struct {
	Title         *string             `json:"title" validate:"omitempty,min=1,max=100"`
	Description   *string             `json:"description" validate:"omitempty,max=2000"`
	Price         *float64            `json:"price" validate:"omitempty,gte=0"`
	Level         *models.CourseLevel `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationHours *int                `json:"duration_hours" validate:"omitempty,gte=0"`
	CategoryIDs   *[]string           `json:"categories"`
	Published     *bool               `json:"published"`
}

type CategoryCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"omitempty,max=200"`
}

type CategoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
}

type ReviewCreateRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"omitempty,max=1000"`
	CourseID string `json:"course_id" validate:"required"`
}

type ReviewUpdateRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}
