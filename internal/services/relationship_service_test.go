package services

import (
	"context"
	"errors"
	"testing"
)

func TestRelationshipService_SetCourseCategories(t *testing.T) {
	env := newTestEnv(t)
	svc := env.relationshipService()
	ctx := context.Background()

	instructor := env.mustCreateUser(t, "teach@example.com", "instructor")
	course := env.mustCreateCourse(t, instructor.ID, "Go Basics", true)
	catA := env.mustCreateCategory(t, "Programming")
	catB := env.mustCreateCategory(t, "Backend")
	catC := env.mustCreateCategory(t, "Databases")

	t.Run("AddCategories", func(t *testing.T) {
		if err := svc.SetCourseCategories(ctx, course.ID, []string{catA.ID, catB.ID}); err != nil {
			t.Fatalf("Failed to set categories: %v", err)
		}

		got, err := env.repo.Course().GetByID(ctx, course.ID)
		if err != nil {
			t.Fatalf("Failed to reload course: %v", err)
		}
		if len(got.CategoryIDs) != 2 {
			t.Fatalf("Expected 2 category IDs on course, got %d", len(got.CategoryIDs))
		}

		// Both sides of the pairing must agree.
		for _, id := range []string{catA.ID, catB.ID} {
			cat, err := env.repo.Category().GetByID(ctx, id)
			if err != nil {
				t.Fatalf("Failed to reload category: %v", err)
			}
			if !cat.HasCourse(course.ID) {
				t.Errorf("Category %s should reference course %s", cat.Name, course.ID)
			}
		}
	})

	t.Run("ReplaceCategories", func(t *testing.T) {
		if err := svc.SetCourseCategories(ctx, course.ID, []string{catB.ID, catC.ID}); err != nil {
			t.Fatalf("Failed to replace categories: %v", err)
		}

		removed, _ := env.repo.Category().GetByID(ctx, catA.ID)
		if removed.HasCourse(course.ID) {
			t.Errorf("Removed category should no longer reference the course")
		}
		added, _ := env.repo.Category().GetByID(ctx, catC.ID)
		if !added.HasCourse(course.ID) {
			t.Errorf("Added category should reference the course")
		}
		kept, _ := env.repo.Category().GetByID(ctx, catB.ID)
		if !kept.HasCourse(course.ID) {
			t.Errorf("Kept category should still reference the course")
		}
	})

	t.Run("ClearCategories", func(t *testing.T) {
		if err := svc.SetCourseCategories(ctx, course.ID, nil); err != nil {
			t.Fatalf("Failed to clear categories: %v", err)
		}

		got, _ := env.repo.Course().GetByID(ctx, course.ID)
		if len(got.CategoryIDs) != 0 {
			t.Errorf("Expected no category IDs, got %d", len(got.CategoryIDs))
		}
	})

	t.Run("UnknownCategoryFailsWholeOperation", func(t *testing.T) {
		err := svc.SetCourseCategories(ctx, course.ID, []string{catA.ID, "missing-id"})
		if !errors.Is(err, ErrCategoryNotFound) {
			t.Fatalf("Expected ErrCategoryNotFound, got %v", err)
		}

		// Nothing may have been written.
		got, _ := env.repo.Course().GetByID(ctx, course.ID)
		if len(got.CategoryIDs) != 0 {
			t.Errorf("Expected course categories untouched after failure, got %d", len(got.CategoryIDs))
		}
		cat, _ := env.repo.Category().GetByID(ctx, catA.ID)
		if cat.HasCourse(course.ID) {
			t.Errorf("Expected category untouched after failure")
		}
	})

	t.Run("DuplicateIDsDeduplicated", func(t *testing.T) {
		if err := svc.SetCourseCategories(ctx, course.ID, []string{catA.ID, catA.ID}); err != nil {
			t.Fatalf("Failed to set categories: %v", err)
		}

		got, _ := env.repo.Course().GetByID(ctx, course.ID)
		if len(got.CategoryIDs) != 1 {
			t.Errorf("Expected deduplicated category list, got %d entries", len(got.CategoryIDs))
		}
	})

	t.Run("UnknownCourse", func(t *testing.T) {
		err := svc.SetCourseCategories(ctx, "missing-course", []string{catA.ID})
		if !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("Expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestRelationshipService_EnrollUnenroll(t *testing.T) {
	env := newTestEnv(t)
	svc := env.relationshipService()
	ctx := context.Background()

	instructor := env.mustCreateUser(t, "teach@example.com", "instructor")
	learner := env.mustCreateUser(t, "learn@example.com", "learner")
	course := env.mustCreateCourse(t, instructor.ID, "Go Basics", true)

	t.Run("Enroll", func(t *testing.T) {
		if err := svc.Enroll(ctx, learner.ID, course.ID); err != nil {
			t.Fatalf("Failed to enroll: %v", err)
		}

		gotUser, _ := env.repo.User().GetByID(ctx, learner.ID)
		gotCourse, _ := env.repo.Course().GetByID(ctx, course.ID)
		if !gotUser.Enrolled(course.ID) {
			t.Error("User side of the enrollment is missing")
		}
		if !gotCourse.HasStudent(learner.ID) {
			t.Error("Course side of the enrollment is missing")
		}
	})

	t.Run("DoubleEnrollConflicts", func(t *testing.T) {
		if err := svc.Enroll(ctx, learner.ID, course.ID); !errors.Is(err, ErrAlreadyEnrolled) {
			t.Errorf("Expected ErrAlreadyEnrolled, got %v", err)
		}
	})

	t.Run("Unenroll", func(t *testing.T) {
		if err := svc.Unenroll(ctx, learner.ID, course.ID); err != nil {
			t.Fatalf("Failed to unenroll: %v", err)
		}

		gotUser, _ := env.repo.User().GetByID(ctx, learner.ID)
		gotCourse, _ := env.repo.Course().GetByID(ctx, course.ID)
		if gotUser.Enrolled(course.ID) {
			t.Error("User side of the enrollment should be gone")
		}
		if gotCourse.HasStudent(learner.ID) {
			t.Error("Course side of the enrollment should be gone")
		}
	})

	t.Run("UnenrollWithoutEnrollment", func(t *testing.T) {
		if err := svc.Unenroll(ctx, learner.ID, course.ID); !errors.Is(err, ErrNotEnrolled) {
			t.Errorf("Expected ErrNotEnrolled, got %v", err)
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		if err := svc.Enroll(ctx, "missing-user", course.ID); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("UnknownCourse", func(t *testing.T) {
		if err := svc.Enroll(ctx, learner.ID, "missing-course"); !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("Expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestRelationshipService_OnCourseDeleted(t *testing.T) {
	env := newTestEnv(t)
	svc := env.relationshipService()
	ctx := context.Background()

	instructor := env.mustCreateUser(t, "teach@example.com", "instructor")
	learnerA := env.mustCreateUser(t, "a@example.com", "learner")
	learnerB := env.mustCreateUser(t, "b@example.com", "learner")
	course := env.mustCreateCourse(t, instructor.ID, "Go Basics", true)
	other := env.mustCreateCourse(t, instructor.ID, "Advanced Go", true)
	category := env.mustCreateCategory(t, "Programming")

	if err := svc.SetCourseCategories(ctx, course.ID, []string{category.ID}); err != nil {
		t.Fatalf("Failed to set categories: %v", err)
	}
	for _, learner := range []string{learnerA.ID, learnerB.ID} {
		if err := svc.Enroll(ctx, learner, course.ID); err != nil {
			t.Fatalf("Failed to enroll: %v", err)
		}
	}
	if err := svc.Enroll(ctx, learnerA.ID, other.ID); err != nil {
		t.Fatalf("Failed to enroll in other course: %v", err)
	}

	if err := svc.OnCourseDeleted(ctx, course.ID); err != nil {
		t.Fatalf("Failed to clean up course references: %v", err)
	}

	gotCategory, _ := env.repo.Category().GetByID(ctx, category.ID)
	if gotCategory.HasCourse(course.ID) {
		t.Error("Category should no longer reference the deleted course")
	}

	gotA, _ := env.repo.User().GetByID(ctx, learnerA.ID)
	gotB, _ := env.repo.User().GetByID(ctx, learnerB.ID)
	if gotA.Enrolled(course.ID) || gotB.Enrolled(course.ID) {
		t.Error("Users should no longer be enrolled in the deleted course")
	}
	if !gotA.Enrolled(other.ID) {
		t.Error("Unrelated enrollment must survive the cleanup")
	}
}
