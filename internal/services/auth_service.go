package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/marketplace-service/internal/auth"
	"github.com/SAP-F-2025/marketplace-service/internal/events"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
	"github.com/SAP-F-2025/marketplace-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	issuer    *auth.TokenIssuer
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewAuthService(
	repo repositories.Repository,
	issuer *auth.TokenIssuer,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger utils.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		issuer:    issuer,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates the account together with its profile and signs the caller
// in. Emails are stored lowercase so lookups are case-insensitive.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleLearner
	if req.Role != nil {
		role = *req.Role
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		Role:     role,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		profile := &models.Profile{
			UserID:    user.ID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}
		if err := txRepo.Profile().Create(ctx, profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		user.ProfileID = &profile.ID
		user.Profile = profile
		if err := txRepo.User().Update(ctx, user); err != nil {
			return fmt.Errorf("failed to link profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.publishEvent(ctx, events.EventUserRegistered, map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
	})

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)

	return &AuthResponse{
		ID:      user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Profile: user.Profile,
		Token:   token,
	}, nil
}

// Login verifies credentials and issues a fresh token. Unknown email and
// wrong password produce the same error so the response leaks nothing.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{
		ID:      user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Profile: user.Profile,
		Token:   token,
	}, nil
}

// Me returns the authenticated account with its profile and the full detail
// of every course it is enrolled in.
func (s *authService) Me(ctx context.Context, userID string) (*MeResponse, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	courses := make([]*models.Course, 0, len(user.EnrolledCourseIDs))
	for _, courseID := range user.EnrolledCourseIDs {
		course, err := s.repo.Course().GetByID(ctx, courseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				// Stale reference, skip rather than fail the whole response.
				continue
			}
			return nil, fmt.Errorf("failed to load enrolled course: %w", err)
		}
		courses = append(courses, course)
	}

	return &MeResponse{User: user, EnrolledCourses: courses}, nil
}

func (s *authService) publishEvent(ctx context.Context, eventType events.EventType, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, events.NewDomainEvent(eventType, data)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", eventType, "error", err)
	}
}
