package services

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
)

// relationshipService is the single owner of the paired ID lists that
// denormalize the course<->category and user<->course associations. Every
// mutation runs inside one repository transaction so the two sides can never
// diverge on a partial failure.
type relationshipService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewRelationshipService(repo repositories.Repository, logger utils.Logger) RelationshipService {
	return &relationshipService{repo: repo, logger: logger}
}

// SetCourseCategories reconciles a course's category list against
// newCategoryIDs: removed categories drop the course from their side, added
// categories gain it. Unknown category IDs fail the whole operation.
func (s *relationshipService) SetCourseCategories(ctx context.Context, courseID string, newCategoryIDs []string) error {
	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		course, err := txRepo.Course().GetByID(ctx, courseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to load course: %w", err)
		}

		newSet := make(map[string]bool, len(newCategoryIDs))
		deduped := make([]string, 0, len(newCategoryIDs))
		for _, id := range newCategoryIDs {
			if !newSet[id] {
				newSet[id] = true
				deduped = append(deduped, id)
			}
		}

		// Validate additions up front so nothing is written when one ID is bad.
		if len(deduped) > 0 {
			found, err := txRepo.Category().GetByIDs(ctx, deduped)
			if err != nil {
				return fmt.Errorf("failed to load categories: %w", err)
			}
			if len(found) != len(deduped) {
				return ErrCategoryNotFound
			}
		}

		oldSet := make(map[string]bool, len(course.CategoryIDs))
		for _, id := range course.CategoryIDs {
			oldSet[id] = true
		}

		for id := range oldSet {
			if !newSet[id] {
				if err := s.removeCourseFromCategory(ctx, txRepo, id, courseID); err != nil {
					return err
				}
			}
		}
		for _, id := range deduped {
			if !oldSet[id] {
				if err := s.addCourseToCategory(ctx, txRepo, id, courseID); err != nil {
					return err
				}
			}
		}

		course.CategoryIDs = datatypes.NewJSONSlice(deduped)
		if err := txRepo.Course().Update(ctx, course); err != nil {
			return fmt.Errorf("failed to update course categories: %w", err)
		}
		return nil
	})
}

// Enroll adds the user to the course and the course to the user, atomically.
func (s *relationshipService) Enroll(ctx context.Context, userID, courseID string) error {
	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, course, err := s.loadPair(ctx, txRepo, userID, courseID)
		if err != nil {
			return err
		}
		if user.Enrolled(courseID) || course.HasStudent(userID) {
			return ErrAlreadyEnrolled
		}

		user.EnrolledCourseIDs = append(user.EnrolledCourseIDs, courseID)
		course.EnrolledStudentIDs = append(course.EnrolledStudentIDs, userID)
		return s.savePair(ctx, txRepo, user, course)
	})
}

// Unenroll removes the pairing from both sides, atomically.
func (s *relationshipService) Unenroll(ctx context.Context, userID, courseID string) error {
	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, course, err := s.loadPair(ctx, txRepo, userID, courseID)
		if err != nil {
			return err
		}
		if !user.Enrolled(courseID) && !course.HasStudent(userID) {
			return ErrNotEnrolled
		}

		user.EnrolledCourseIDs = removeID(user.EnrolledCourseIDs, courseID)
		course.EnrolledStudentIDs = removeID(course.EnrolledStudentIDs, userID)
		return s.savePair(ctx, txRepo, user, course)
	})
}

// OnCourseDeleted strips a deleted course's ID out of every category and
// every enrolled user that still references it.
func (s *relationshipService) OnCourseDeleted(ctx context.Context, courseID string) error {
	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		categories, err := txRepo.Category().ListReferencingCourse(ctx, courseID)
		if err != nil {
			return fmt.Errorf("failed to list categories referencing course: %w", err)
		}
		for _, category := range categories {
			category.CourseIDs = removeID(category.CourseIDs, courseID)
			if err := txRepo.Category().Update(ctx, category); err != nil {
				return fmt.Errorf("failed to update category %s: %w", category.ID, err)
			}
		}

		users, err := txRepo.User().ListEnrolledIn(ctx, courseID)
		if err != nil {
			return fmt.Errorf("failed to list users enrolled in course: %w", err)
		}
		for _, user := range users {
			user.EnrolledCourseIDs = removeID(user.EnrolledCourseIDs, courseID)
			if err := txRepo.User().Update(ctx, user); err != nil {
				return fmt.Errorf("failed to update user %s: %w", user.ID, err)
			}
		}

		s.logger.InfoContext(ctx, "course references cleaned up",
			"course_id", courseID,
			"categories", len(categories),
			"users", len(users))
		return nil
	})
}

func (s *relationshipService) loadPair(ctx context.Context, txRepo repositories.Repository, userID, courseID string) (*models.User, *models.Course, error) {
	user, err := txRepo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	course, err := txRepo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, fmt.Errorf("failed to load course: %w", err)
	}
	return user, course, nil
}

func (s *relationshipService) savePair(ctx context.Context, txRepo repositories.Repository, user *models.User, course *models.Course) error {
	if err := txRepo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user enrollment list: %w", err)
	}
	if err := txRepo.Course().Update(ctx, course); err != nil {
		return fmt.Errorf("failed to update course enrollment list: %w", err)
	}
	return nil
}

func (s *relationshipService) addCourseToCategory(ctx context.Context, txRepo repositories.Repository, categoryID, courseID string) error {
	category, err := txRepo.Category().GetByID(ctx, categoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	if category.HasCourse(courseID) {
		return nil
	}
	category.CourseIDs = append(category.CourseIDs, courseID)
	if err := txRepo.Category().Update(ctx, category); err != nil {
		return fmt.Errorf("failed to update category %s: %w", categoryID, err)
	}
	return nil
}

func (s *relationshipService) removeCourseFromCategory(ctx context.Context, txRepo repositories.Repository, categoryID, courseID string) error {
	category, err := txRepo.Category().GetByID(ctx, categoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// The category is already gone, nothing to unlink.
			return nil
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	category.CourseIDs = removeID(category.CourseIDs, courseID)
	if err := txRepo.Category().Update(ctx, category); err != nil {
		return fmt.Errorf("failed to update category %s: %w", categoryID, err)
	}
	return nil
}

func removeID(list datatypes.JSONSlice[string], id string) datatypes.JSONSlice[string] {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return datatypes.NewJSONSlice(out)
}
