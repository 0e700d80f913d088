package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/marketplace-service/internal/events"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
	"github.com/SAP-F-2025/marketplace-service/internal/validator"
)

type reviewService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewReviewService(
	repo repositories.Repository,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger utils.Logger,
) ReviewService {
	return &reviewService{repo: repo, validator: v, publisher: publisher, logger: logger}
}

func (s *reviewService) ListByCourse(ctx context.Context, courseID string) ([]*models.Review, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	reviews, err := s.repo.Review().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Create records one review per (user, course) pair. The author is always the
// acting principal.
func (s *reviewService) Create(ctx context.Context, req *ReviewCreateRequest, principal *models.User) (*models.Review, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Course().GetByID(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	exists, err := s.repo.Review().ExistsByUserAndCourse(ctx, principal.ID, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		Rating:   req.Rating,
		Comment:  req.Comment,
		UserID:   principal.ID,
		CourseID: req.CourseID,
	}
	if err := s.repo.Review().Create(ctx, review); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.publishEvent(ctx, events.EventReviewCreated, map[string]interface{}{
		"review_id": review.ID,
		"course_id": review.CourseID,
		"user_id":   review.UserID,
		"rating":    review.Rating,
	})

	s.logger.InfoContext(ctx, "review created", "review_id", review.ID, "course_id", review.CourseID)
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, id string, req *ReviewUpdateRequest, principal *models.User) (*models.Review, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	review, err := s.repo.Review().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	if !ownerOrAdmin(principal, review.UserID) {
		return nil, NewPermissionError(principal.ID, id, "review", "update", "not the review author")
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.repo.Review().Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	s.logger.InfoContext(ctx, "review updated", "review_id", review.ID, "updated_by", principal.ID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id string, principal *models.User) error {
	review, err := s.repo.Review().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to load review: %w", err)
	}

	if !ownerOrAdmin(principal, review.UserID) {
		return NewPermissionError(principal.ID, id, "review", "delete", "not the review author")
	}

	if err := s.repo.Review().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.logger.InfoContext(ctx, "review deleted", "review_id", id, "deleted_by", principal.ID)
	return nil
}

func (s *reviewService) publishEvent(ctx context.Context, eventType events.EventType, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, events.NewDomainEvent(eventType, data)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", eventType, "error", err)
	}
}
