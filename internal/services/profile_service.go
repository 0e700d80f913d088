package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
	"github.com/SAP-F-2025/marketplace-service/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewProfileService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) ProfileService {
	return &profileService{repo: repo, validator: v, logger: logger}
}

func (s *profileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, userID string, req *ProfileUpdateRequest, principal *models.User) (*models.Profile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if !ownerOrAdmin(principal, userID) {
		return nil, NewPermissionError(principal.ID, userID, "profile", "update", "not the profile owner")
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}

	if err := s.repo.Profile().Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated", "user_id", userID, "updated_by", principal.ID)
	return profile, nil
}
