package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/marketplace-service/internal/cache"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := c.cacheManager.Course.CacheOrExecute(ctx, "id:"+id, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var loaded models.Course
		err := c.db.WithContext(ctx).
			Preload("Instructor").
			Preload("Instructor.Profile").
			First(&loaded, "id = ?", id).Error
		if err != nil {
			return nil, err
		}
		return &loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// courseListPage carries a listing and its total count through the cache as
// one value.
type courseListPage struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
}

// listCacheKey is stable per filter combination and lives under the "list:"
// prefix so writes can drop every listing with one "list:*" invalidation.
func listCacheKey(filters repositories.CourseFilters) string {
	key := "list:"
	if filters.Published != nil {
		key += fmt.Sprintf("pub=%t:", *filters.Published)
	}
	if filters.InstructorID != nil {
		key += "inst=" + *filters.InstructorID + ":"
	}
	if filters.Level != nil {
		key += "lvl=" + string(*filters.Level) + ":"
	}
	if filters.CategoryID != nil {
		key += "cat=" + *filters.CategoryID + ":"
	}
	return key + fmt.Sprintf("%d:%d", filters.Limit, filters.Offset)
}

func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var page courseListPage
	err := c.cacheManager.Course.CacheOrExecute(ctx, listCacheKey(filters), &page, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		courses, total, err := c.list(ctx, filters)
		if err != nil {
			return nil, err
		}
		return &courseListPage{Courses: courses, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Courses, page.Total, nil
}

func (c *CoursePostgreSQL) list(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := c.db.WithContext(ctx).Model(&models.Course{})

	if filters.Published != nil {
		query = query.Where("published = ?", *filters.Published)
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var courses []*models.Course
	err := query.
		Preload("Instructor").
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	// Category filtering happens on the JSON list, after the indexed filters.
	if filters.CategoryID != nil {
		filtered := courses[:0]
		for _, course := range courses {
			if course.HasCategory(*filters.CategoryID) {
				filtered = append(filtered, course)
			}
		}
		courses = filtered
		total = int64(len(courses))
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)
	return nil
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, id string) error {
	result := c.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, id)
	return nil
}
