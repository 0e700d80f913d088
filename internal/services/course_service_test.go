package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/marketplace-service/internal/events"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
)

func TestCourseService_Create(t *testing.T) {
	env := newTestEnv(t)
	svc := env.courseService()
	ctx := context.Background()

	instructor := env.mustCreateUser(t, "teach@example.com", models.RoleInstructor)
	category := env.mustCreateCategory(t, "Programming")

	t.Run("OwnerComesFromPrincipal", func(t *testing.T) {
		resp, err := svc.Create(ctx, &CourseCreateRequest{
			Title:       "Go Basics",
			Price:       19.99,
			CategoryIDs: []string{category.ID},
		}, instructor)
		if err != nil {
			t.Fatalf("Failed to create course: %v", err)
		}

		if resp.InstructorID != instructor.ID {
			t.Errorf("Expected instructor %s, got %s", instructor.ID, resp.InstructorID)
		}
		if !resp.CanEdit || !resp.CanDelete {
			t.Error("Creator should be allowed to edit and delete")
		}
		if len(resp.CategoryNames) != 1 || resp.CategoryNames[0] != "Programming" {
			t.Errorf("Expected resolved category names, got %v", resp.CategoryNames)
		}

		cat, _ := env.repo.Category().GetByID(ctx, category.ID)
		if !cat.HasCourse(resp.ID) {
			t.Error("Category should reference the new course")
		}
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		_, err := svc.Create(ctx, &CourseCreateRequest{
			Title:       "Broken",
			CategoryIDs: []string{"missing-id"},
		}, instructor)
		if !errors.Is(err, ErrCategoryNotFound) {
			t.Errorf("Expected ErrCategoryNotFound, got %v", err)
		}
	})

	t.Run("NegativePriceRejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &CourseCreateRequest{Title: "Cheap", Price: -1}, instructor)
		if !IsValidation(err) {
			t.Errorf("Expected a validation failure, got %v", err)
		}
	})

	t.Run("PublishedAtCreationEmitsEvent", func(t *testing.T) {
		env.publisher.ClearEvents()

		published := true
		_, err := svc.Create(ctx, &CourseCreateRequest{Title: "Live", Published: &published}, instructor)
		if err != nil {
			t.Fatalf("Failed to create course: %v", err)
		}

		got := env.publisher.GetPublishedEvents()
		if len(got) != 1 || got[0].Type != events.EventCoursePublished {
			t.Errorf("Expected one %s event, got %v", events.EventCoursePublished, got)
		}
	})
}

func TestCourseService_UpdateAuthorization(t *testing.T) {
	env := newTestEnv(t)
	svc := env.courseService()
	ctx := context.Background()

	owner := env.mustCreateUser(t, "owner@example.com", models.RoleInstructor)
	rival := env.mustCreateUser(t, "rival@example.com", models.RoleInstructor)
	admin := env.mustCreateUser(t, "admin@example.com", models.RoleAdmin)
	course := env.mustCreateCourse(t, owner.ID, "Go Basics", false)

	newTitle := "Go Basics, 2nd edition"

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, course.ID, &CourseUpdateRequest{Title: &newTitle}, rival)
		if !IsForbidden(err) {
			t.Errorf("Expected a forbidden error for a non-owner, got %v", err)
		}
	})

	t.Run("OwnerAllowed", func(t *testing.T) {
		resp, err := svc.Update(ctx, course.ID, &CourseUpdateRequest{Title: &newTitle}, owner)
		if err != nil {
			t.Fatalf("Failed to update as owner: %v", err)
		}
		if resp.Title != newTitle {
			t.Errorf("Expected updated title, got %s", resp.Title)
		}
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		price := 99.0
		if _, err := svc.Update(ctx, course.ID, &CourseUpdateRequest{Price: &price}, admin); err != nil {
			t.Errorf("Expected admin update to succeed, got %v", err)
		}
	})

	t.Run("PublishTransitionEmitsEvent", func(t *testing.T) {
		env.publisher.ClearEvents()

		published := true
		if _, err := svc.Update(ctx, course.ID, &CourseUpdateRequest{Published: &published}, owner); err != nil {
			t.Fatalf("Failed to publish course: %v", err)
		}
		got := env.publisher.GetPublishedEvents()
		if len(got) != 1 || got[0].Type != events.EventCoursePublished {
			t.Errorf("Expected one %s event, got %d events", events.EventCoursePublished, len(got))
		}

		// Updating an already published course emits nothing.
		env.publisher.ClearEvents()
		if _, err := svc.Update(ctx, course.ID, &CourseUpdateRequest{Published: &published}, owner); err != nil {
			t.Fatalf("Failed to update course: %v", err)
		}
		if got := env.publisher.GetPublishedEvents(); len(got) != 0 {
			t.Errorf("Expected no publish event on an already published course, got %d", len(got))
		}
	})

	t.Run("DeleteForbiddenForNonOwner", func(t *testing.T) {
		if err := svc.Delete(ctx, course.ID, rival); !IsForbidden(err) {
			t.Errorf("Expected a forbidden error, got %v", err)
		}
	})

	t.Run("DeleteCleansReferences", func(t *testing.T) {
		learner := env.mustCreateUser(t, "learn@example.com", models.RoleLearner)
		if err := svc.Enroll(ctx, course.ID, learner); err != nil {
			t.Fatalf("Failed to enroll: %v", err)
		}

		if err := svc.Delete(ctx, course.ID, owner); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}

		if _, err := svc.GetByID(ctx, course.ID, nil); !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("Expected deleted course to be gone, got %v", err)
		}
		gotLearner, _ := env.repo.User().GetByID(ctx, learner.ID)
		if gotLearner.Enrolled(course.ID) {
			t.Error("Learner should no longer reference the deleted course")
		}
	})
}

func TestCourseService_ListPublic(t *testing.T) {
	env := newTestEnv(t)
	svc := env.courseService()
	ctx := context.Background()

	instructor := env.mustCreateUser(t, "teach@example.com", models.RoleInstructor)
	env.mustCreateCourse(t, instructor.ID, "Published course", true)
	env.mustCreateCourse(t, instructor.ID, "Draft course", false)

	resp, err := svc.ListPublic(ctx)
	if err != nil {
		t.Fatalf("Failed to list courses: %v", err)
	}

	if resp.Total != 1 || len(resp.Courses) != 1 {
		t.Fatalf("Expected exactly the published course, got %d", len(resp.Courses))
	}
	if resp.Courses[0].Title != "Published course" {
		t.Errorf("Expected the published course, got %s", resp.Courses[0].Title)
	}
	if resp.Courses[0].Instructor == nil || resp.Courses[0].Instructor.Email != "teach@example.com" {
		t.Error("Expected the instructor to be loaded with the listing")
	}
}

func TestCourseService_DerivedRating(t *testing.T) {
	env := newTestEnv(t)
	svc := env.courseService()
	reviews := env.reviewService()
	ctx := context.Background()

	instructor := env.mustCreateUser(t, "teach@example.com", models.RoleInstructor)
	course := env.mustCreateCourse(t, instructor.ID, "Go Basics", true)

	t.Run("NoReviews", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, course.ID, nil)
		if err != nil {
			t.Fatalf("Failed to load course: %v", err)
		}
		if resp.AverageRating != 0 || resp.ReviewCount != 0 {
			t.Errorf("Expected rating 0 with 0 reviews, got %.1f/%d", resp.AverageRating, resp.ReviewCount)
		}
	})

	t.Run("RoundedHalfUp", func(t *testing.T) {
		for i, rating := range []int{5, 4, 5} {
			reviewer := env.mustCreateUser(t, string(rune('a'+i))+"@example.com", models.RoleLearner)
			_, err := reviews.Create(ctx, &ReviewCreateRequest{Rating: rating, CourseID: course.ID}, reviewer)
			if err != nil {
				t.Fatalf("Failed to create review: %v", err)
			}
		}

		resp, err := svc.GetByID(ctx, course.ID, nil)
		if err != nil {
			t.Fatalf("Failed to load course: %v", err)
		}
		// mean of 5,4,5 is 4.666..., rounded half-up to one decimal
		if resp.AverageRating != 4.7 {
			t.Errorf("Expected average rating 4.7, got %.2f", resp.AverageRating)
		}
		if resp.ReviewCount != 3 {
			t.Errorf("Expected 3 reviews, got %d", resp.ReviewCount)
		}
	})
}

func TestAverageRating(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"Empty", nil, 0},
		{"Single", []int{3}, 3},
		{"HalfUp", []int{5, 4, 5}, 4.7},
		{"Exact", []int{4, 4}, 4},
		{"RoundsDown", []int{4, 4, 5}, 4.3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := averageRating(tc.ratings); got != tc.want {
				t.Errorf("averageRating(%v) = %v, want %v", tc.ratings, got, tc.want)
			}
		})
	}
}
