package services

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request structures live with their validate tags in the validator package
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UserUpdateRequest = validator.UserUpdateRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type CourseCreateRequest = validator.CourseCreateRequest
type CourseUpdateRequest = validator.CourseUpdateRequest
type CategoryCreateRequest = validator.CategoryCreateRequest
type CategoryUpdateRequest = validator.CategoryUpdateRequest
type ReviewCreateRequest = validator.ReviewCreateRequest
type ReviewUpdateRequest = validator.ReviewUpdateRequest

// AuthResponse is returned by registration and login.
type AuthResponse struct {
	ID      string          `json:"id"`
	Email   string          `json:"email"`
	Role    models.UserRole `json:"role"`
	Profile *models.Profile `json:"profile"`
	Token   string          `json:"token"`
}

// MeResponse is the authenticated account with its profile and the courses
// it is enrolled in.
type MeResponse struct {
	*models.User
	EnrolledCourses []*models.Course `json:"enrolled_courses_detail"`
}

type CourseResponse struct {
	*models.Course
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Me(ctx context.Context, userID string) (*MeResponse, error)
}

type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	Update(ctx context.Context, id string, req *UserUpdateRequest, principal *models.User) (*models.User, error)
	Delete(ctx context.Context, id string, principal *models.User) error
}

type ProfileService interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, req *ProfileUpdateRequest, principal *models.User) (*models.Profile, error)
}

type CourseService interface {
	// ListPublic returns published courses only, with instructor, category
	// names and the derived average rating.
	ListPublic(ctx context.Context) (*CourseListResponse, error)
	GetByID(ctx context.Context, id string, principal *models.User) (*CourseResponse, error)
	Create(ctx context.Context, req *CourseCreateRequest, principal *models.User) (*CourseResponse, error)
	Update(ctx context.Context, id string, req *CourseUpdateRequest, principal *models.User) (*CourseResponse, error)
	Delete(ctx context.Context, id string, principal *models.User) error
	Enroll(ctx context.Context, courseID string, principal *models.User) error
	Unenroll(ctx context.Context, courseID string, principal *models.User) error
}

type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, req *CategoryCreateRequest) (*models.Category, error)
	Update(ctx context.Context, id string, req *CategoryUpdateRequest) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type ReviewService interface {
	ListByCourse(ctx context.Context, courseID string) ([]*models.Review, error)
	Create(ctx context.Context, req *ReviewCreateRequest, principal *models.User) (*models.Review, error)
	Update(ctx context.Context, id string, req *ReviewUpdateRequest, principal *models.User) (*models.Review, error)
	Delete(ctx context.Context, id string, principal *models.User) error
}

// RelationshipService keeps the two denormalized many-to-many associations
// mutually consistent. No handler touches both sides ad hoc.
type RelationshipService interface {
	SetCourseCategories(ctx context.Context, courseID string, newCategoryIDs []string) error
	Enroll(ctx context.Context, userID, courseID string) error
	Unenroll(ctx context.Context, userID, courseID string) error
	OnCourseDeleted(ctx context.Context, courseID string) error
}

type ExportService interface {
	// CourseRoster builds an XLSX workbook of the course's enrolled accounts.
	CourseRoster(ctx context.Context, courseID string, principal *models.User) (*excelize.File, error)
}

type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Profile() ProfileService
	Course() CourseService
	Category() CategoryService
	Review() ReviewService
	Export() ExportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
