package repositories

import (
	"context"

	"github.com/SAP-F-2025/marketplace-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type CourseFilters struct {
	InstructorID *string             `json:"instructor_id"`
	CategoryID   *string             `json:"category_id"`
	Level        *models.CourseLevel `json:"level"`
	Published    *bool               `json:"published"`
	Limit        int                 `json:"limit"`
	Offset       int                 `json:"offset"`
}

// ===== PER-ENTITY REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	// ListEnrolledIn returns every account whose enrollment list references
	// the course. Used for best-effort cleanup on course deletion.
	ListEnrolledIn(ctx context.Context, courseID string) ([]*models.User, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error

	// ExistsByName reports whether another category already uses the name.
	// A non-empty excludeID leaves that category out of the check, so a
	// rename to the current name is not a conflict.
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)

	// ListReferencingCourse returns every category whose course list
	// references the course.
	ListReferencingCourse(ctx context.Context, courseID string) ([]*models.Category, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Review, error)
	ExistsByUserAndCourse(ctx context.Context, userID, courseID string) (bool, error)
	RatingsByCourse(ctx context.Context, courseID string) ([]int, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
}
