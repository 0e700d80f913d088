package services

import (
	"context"
	"fmt"
	"math"

	"github.com/SAP-F-2025/marketplace-service/internal/events"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
	"github.com/SAP-F-2025/marketplace-service/internal/validator"
)

type courseService struct {
	repo          repositories.Repository
	relationships RelationshipService
	validator     *validator.Validator
	publisher     events.EventPublisher
	logger        utils.Logger
}

func NewCourseService(
	repo repositories.Repository,
	relationships RelationshipService,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger utils.Logger,
) CourseService {
	return &courseService{
		repo:          repo,
		relationships: relationships,
		validator:     v,
		publisher:     publisher,
		logger:        logger,
	}
}

func (s *courseService) ListPublic(ctx context.Context) (*CourseListResponse, error) {
	published := true
	courses, total, err := s.repo.Course().List(ctx, repositories.CourseFilters{Published: &published})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	responses := make([]*CourseResponse, 0, len(courses))
	for _, course := range courses {
		if err := s.decorate(ctx, course); err != nil {
			return nil, err
		}
		responses = append(responses, &CourseResponse{Course: course})
	}
	return &CourseListResponse{Courses: responses, Total: total}, nil
}

func (s *courseService) GetByID(ctx context.Context, id string, principal *models.User) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if err := s.decorate(ctx, course); err != nil {
		return nil, err
	}

	canEdit := ownerOrAdmin(principal, course.InstructorID)
	return &CourseResponse{Course: course, CanEdit: canEdit, CanDelete: canEdit}, nil
}

// Create persists a course owned by the acting principal. The instructor
// binding comes from the authenticated identity, never from the payload.
func (s *courseService) Create(ctx context.Context, req *CourseCreateRequest, principal *models.User) (*CourseResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Level:         models.LevelBeginner,
		DurationHours: req.DurationHours,
		InstructorID:  principal.ID,
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Published != nil {
		course.Published = *req.Published
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if len(req.CategoryIDs) > 0 {
		if err := s.relationships.SetCourseCategories(ctx, course.ID, req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if course.Published {
		s.publishEvent(ctx, events.EventCoursePublished, map[string]interface{}{
			"course_id":     course.ID,
			"title":         course.Title,
			"instructor_id": course.InstructorID,
		})
	}

	s.logger.InfoContext(ctx, "course created", "course_id", course.ID, "instructor_id", principal.ID)
	return s.GetByID(ctx, course.ID, principal)
}

func (s *courseService) Update(ctx context.Context, id string, req *CourseUpdateRequest, principal *models.User) (*CourseResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	if !ownerOrAdmin(principal, course.InstructorID) {
		return nil, NewPermissionError(principal.ID, id, "course", "update", "not the course instructor")
	}

	wasPublished := course.Published

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.DurationHours != nil {
		course.DurationHours = *req.DurationHours
	}
	if req.Published != nil {
		course.Published = *req.Published
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	// A nil list means the caller did not touch categories.
	if req.CategoryIDs != nil {
		if err := s.relationships.SetCourseCategories(ctx, course.ID, *req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if !wasPublished && course.Published {
		s.publishEvent(ctx, events.EventCoursePublished, map[string]interface{}{
			"course_id":     course.ID,
			"title":         course.Title,
			"instructor_id": course.InstructorID,
		})
	}

	s.logger.InfoContext(ctx, "course updated", "course_id", course.ID, "updated_by", principal.ID)
	return s.GetByID(ctx, course.ID, principal)
}

func (s *courseService) Delete(ctx context.Context, id string, principal *models.User) error {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to load course: %w", err)
	}

	if !ownerOrAdmin(principal, course.InstructorID) {
		return NewPermissionError(principal.ID, id, "course", "delete", "not the course instructor")
	}

	if err := s.repo.Course().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if err := s.relationships.OnCourseDeleted(ctx, id); err != nil {
		// The course itself is gone, leftover references get skipped on read.
		s.logger.WarnContext(ctx, "failed to clean up course references", "course_id", id, "error", err)
	}

	s.logger.InfoContext(ctx, "course deleted", "course_id", id, "deleted_by", principal.ID)
	return nil
}

func (s *courseService) Enroll(ctx context.Context, courseID string, principal *models.User) error {
	if err := s.relationships.Enroll(ctx, principal.ID, courseID); err != nil {
		return err
	}

	s.publishEvent(ctx, events.EventEnrollmentCreated, map[string]interface{}{
		"course_id": courseID,
		"user_id":   principal.ID,
	})
	s.logger.InfoContext(ctx, "user enrolled", "course_id", courseID, "user_id", principal.ID)
	return nil
}

func (s *courseService) Unenroll(ctx context.Context, courseID string, principal *models.User) error {
	if err := s.relationships.Unenroll(ctx, principal.ID, courseID); err != nil {
		return err
	}

	s.publishEvent(ctx, events.EventEnrollmentRemoved, map[string]interface{}{
		"course_id": courseID,
		"user_id":   principal.ID,
	})
	s.logger.InfoContext(ctx, "user unenrolled", "course_id", courseID, "user_id", principal.ID)
	return nil
}

// decorate fills the computed fields: derived rating, review count and the
// resolved category names.
func (s *courseService) decorate(ctx context.Context, course *models.Course) error {
	ratings, err := s.repo.Review().RatingsByCourse(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("failed to load ratings: %w", err)
	}
	course.AverageRating = averageRating(ratings)
	course.ReviewCount = len(ratings)

	if len(course.CategoryIDs) > 0 {
		categories, err := s.repo.Category().GetByIDs(ctx, course.CategoryIDs)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		course.CategoryNames = names
	} else {
		course.CategoryNames = []string{}
	}
	return nil
}

// averageRating is the arithmetic mean rounded half-up to one decimal place.
// A course without reviews rates 0.
func averageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}

func (s *courseService) publishEvent(ctx context.Context, eventType events.EventType, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, events.NewDomainEvent(eventType, data)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", eventType, "error", err)
	}
}
