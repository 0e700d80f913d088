package postgres

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/marketplace-service/internal/cache"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
)

func newCourseRepo(t *testing.T) (repositories.CourseRepository, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Course{}); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCoursePostgreSQL(db, cache.NewCacheManager(client)), db, mr
}

func TestCoursePostgreSQL_ListReadThrough(t *testing.T) {
	repo, db, mr := newCourseRepo(t)
	ctx := context.Background()

	course := &models.Course{Title: "Go Basics", InstructorID: "inst-1", Published: true}
	if err := repo.Create(ctx, course); err != nil {
		t.Fatalf("Failed to create course: %v", err)
	}

	published := true
	filters := repositories.CourseFilters{Published: &published}

	courses, total, err := repo.List(ctx, filters)
	if err != nil {
		t.Fatalf("Failed to list courses: %v", err)
	}
	if total != 1 || len(courses) != 1 {
		t.Fatalf("Expected one published course, got %d", len(courses))
	}
	if !mr.Exists("course:list:pub=true:0:0") {
		t.Error("Expected the listing to be written to the cache")
	}

	// A write behind the repository is invisible while the listing is cached.
	if err := db.Model(&models.Course{}).Where("id = ?", course.ID).Update("title", "Changed").Error; err != nil {
		t.Fatalf("Failed to update title directly: %v", err)
	}
	courses, _, err = repo.List(ctx, filters)
	if err != nil {
		t.Fatalf("Failed to list courses: %v", err)
	}
	if courses[0].Title != "Go Basics" {
		t.Errorf("Expected the cached listing, got title %q", courses[0].Title)
	}

	// A repository write invalidates every listing.
	course.Title = "Changed"
	if err := repo.Update(ctx, course); err != nil {
		t.Fatalf("Failed to update course: %v", err)
	}
	courses, _, err = repo.List(ctx, filters)
	if err != nil {
		t.Fatalf("Failed to list courses: %v", err)
	}
	if courses[0].Title != "Changed" {
		t.Errorf("Expected a fresh listing after update, got title %q", courses[0].Title)
	}
}

func TestCoursePostgreSQL_GetByIDReadThrough(t *testing.T) {
	repo, db, mr := newCourseRepo(t)
	ctx := context.Background()

	course := &models.Course{Title: "Go Basics", InstructorID: "inst-1", Published: true}
	if err := repo.Create(ctx, course); err != nil {
		t.Fatalf("Failed to create course: %v", err)
	}

	if _, err := repo.GetByID(ctx, course.ID); err != nil {
		t.Fatalf("Failed to load course: %v", err)
	}
	if !mr.Exists("course:id:" + course.ID) {
		t.Error("Expected the course to be written to the cache")
	}

	if err := db.Model(&models.Course{}).Where("id = ?", course.ID).Update("title", "Changed").Error; err != nil {
		t.Fatalf("Failed to update title directly: %v", err)
	}
	got, err := repo.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("Failed to load course: %v", err)
	}
	if got.Title != "Go Basics" {
		t.Errorf("Expected the cached course, got title %q", got.Title)
	}

	course.Title = "Changed"
	if err := repo.Update(ctx, course); err != nil {
		t.Fatalf("Failed to update course: %v", err)
	}
	got, err = repo.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("Failed to load course: %v", err)
	}
	if got.Title != "Changed" {
		t.Errorf("Expected a fresh course after update, got title %q", got.Title)
	}

	if _, err := repo.GetByID(ctx, "missing-id"); err == nil {
		t.Error("Expected an error for an unknown course")
	}
}
