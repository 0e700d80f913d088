package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
	"github.com/SAP-F-2025/marketplace-service/internal/validator"
)

// categoryService handles the taxonomy. Write operations are already gated to
// admins at the routing layer.
type categoryService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewCategoryService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) CategoryService {
	return &categoryService{repo: repo, validator: v, logger: logger}
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.repo.Category().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.Category().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, req *CategoryCreateRequest) (*models.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Category().ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateCategoryName
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Category().Create(ctx, category); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCategoryName
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id string, req *CategoryUpdateRequest) (*models.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category, err := s.repo.Category().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	if req.Name != nil && *req.Name != category.Name {
		exists, err := s.repo.Category().ExistsByName(ctx, *req.Name, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
		if exists {
			return nil, ErrDuplicateCategoryName
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.repo.Category().Update(ctx, category); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCategoryName
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.logger.InfoContext(ctx, "category updated", "category_id", category.ID)
	return category, nil
}

// Delete removes the category only. Courses keep the dangling category ID;
// reads resolve names through lookups, so the stale reference is invisible
// to clients.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Category().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "category deleted", "category_id", id)
	return nil
}
