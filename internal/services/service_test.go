package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/marketplace-service/internal/auth"
	"github.com/SAP-F-2025/marketplace-service/internal/cache"
	"github.com/SAP-F-2025/marketplace-service/internal/events"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
	"github.com/SAP-F-2025/marketplace-service/internal/validator"
)

// testEnv wires the service layer onto an in-memory sqlite database. The
// repositories only use portable gorm operations, so the sqlite handle
// exercises the same code paths as postgres.
type testEnv struct {
	repo      repositories.Repository
	issuer    *auth.TokenIssuer
	validator *validator.Validator
	publisher *events.MockEventPublisher
	logger    utils.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Course{},
		&models.Category{},
		&models.Review{},
	); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	slogLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		repo:      postgres.NewRepository(db, cache.NewCacheManager(nil)),
		issuer:    auth.NewTokenIssuer("test-secret", time.Hour),
		validator: validator.New(),
		publisher: events.NewMockEventPublisher(slogLogger),
		logger:    utils.NewSlogLogger(slogLogger),
	}
}

func (e *testEnv) authService() AuthService {
	return NewAuthService(e.repo, e.issuer, e.validator, e.publisher, e.logger)
}

func (e *testEnv) relationshipService() RelationshipService {
	return NewRelationshipService(e.repo, e.logger)
}

func (e *testEnv) courseService() CourseService {
	return NewCourseService(e.repo, e.relationshipService(), e.validator, e.publisher, e.logger)
}

func (e *testEnv) userService() UserService {
	return NewUserService(e.repo, e.validator, e.logger)
}

func (e *testEnv) profileService() ProfileService {
	return NewProfileService(e.repo, e.validator, e.logger)
}

func (e *testEnv) categoryService() CategoryService {
	return NewCategoryService(e.repo, e.validator, e.logger)
}

func (e *testEnv) reviewService() ReviewService {
	return NewReviewService(e.repo, e.validator, e.publisher, e.logger)
}

func (e *testEnv) exportService() ExportService {
	return NewExportService(e.repo, e.logger)
}

// mustCreateUser seeds an account directly through the repository.
func (e *testEnv) mustCreateUser(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()

	hashed, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{Email: email, Password: hashed, Role: role}
	if err := e.repo.User().Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}

	profile := &models.Profile{UserID: user.ID, FirstName: "Test", LastName: "User"}
	if err := e.repo.Profile().Create(context.Background(), profile); err != nil {
		t.Fatalf("Failed to create profile for %s: %v", email, err)
	}
	user.ProfileID = &profile.ID
	user.Profile = profile
	if err := e.repo.User().Update(context.Background(), user); err != nil {
		t.Fatalf("Failed to link profile for %s: %v", email, err)
	}
	return user
}

func (e *testEnv) mustCreateCourse(t *testing.T, instructorID, title string, published bool) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:        title,
		Price:        49.99,
		Level:        models.LevelBeginner,
		InstructorID: instructorID,
		Published:    published,
	}
	if err := e.repo.Course().Create(context.Background(), course); err != nil {
		t.Fatalf("Failed to create course %s: %v", title, err)
	}
	return course
}

func (e *testEnv) mustCreateCategory(t *testing.T, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	if err := e.repo.Category().Create(context.Background(), category); err != nil {
		t.Fatalf("Failed to create category %s: %v", name, err)
	}
	return category
}
