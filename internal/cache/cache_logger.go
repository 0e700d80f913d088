package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of
// failing the calling write.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging instead of failing the calling write.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache drops every course-derived entry after a course,
// enrollment or review write.
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID string) {
	SafeDelete(ctx, cm.Course, "id:"+courseID)
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
}

// InvalidateCategoryCache drops the category listing entries after a
// taxonomy write.
func InvalidateCategoryCache(ctx context.Context, cm *CacheManager, categoryID string) {
	SafeDelete(ctx, cm.Category, "id:"+categoryID)
	SafeInvalidatePattern(ctx, cm.Category, "list:*")
}
