package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/marketplace-service/internal/cache"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
)

type CategoryPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCategoryPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CategoryRepository {
	return &CategoryPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (c *CategoryPostgreSQL) Create(ctx context.Context, category *models.Category) error {
	if err := c.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	cache.InvalidateCategoryCache(ctx, c.cacheManager, category.ID)
	return nil
}

func (c *CategoryPostgreSQL) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := c.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *CategoryPostgreSQL) GetByIDs(ctx context.Context, ids []string) ([]*models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []*models.Category
	err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get categories by ids: %w", err)
	}
	return categories, nil
}

func (c *CategoryPostgreSQL) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := c.cacheManager.Category.CacheOrExecute(ctx, "list:all", &categories, cache.CategoryCacheConfig.TTL, func() (interface{}, error) {
		var fresh []*models.Category
		if err := c.db.WithContext(ctx).Order("name ASC").Find(&fresh).Error; err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *CategoryPostgreSQL) Update(ctx context.Context, category *models.Category) error {
	if err := c.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	cache.InvalidateCategoryCache(ctx, c.cacheManager, category.ID)
	return nil
}

func (c *CategoryPostgreSQL) Delete(ctx context.Context, id string) error {
	result := c.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateCategoryCache(ctx, c.cacheManager, id)
	return nil
}

func (c *CategoryPostgreSQL) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := c.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}

// ListReferencingCourse filters the JSON course lists in application code.
// The taxonomy is small, so a full scan is acceptable here.
func (c *CategoryPostgreSQL) ListReferencingCourse(ctx context.Context, courseID string) ([]*models.Category, error) {
	var candidates []*models.Category
	if err := c.db.WithContext(ctx).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}

	var categories []*models.Category
	for _, candidate := range candidates {
		if candidate.HasCourse(courseID) {
			categories = append(categories, candidate)
		}
	}
	return categories, nil
}
