package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/marketplace-service/internal/cache"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
)

// RepositoryConfig holds the connections the repositories are built from.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

type repository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager

	user     repositories.UserRepository
	profile  repositories.ProfileRepository
	course   repositories.CourseRepository
	category repositories.CategoryRepository
	review   repositories.ReviewRepository
}

// NewRepository builds the repository aggregate over one gorm handle. The
// handle may be a transaction; WithTransaction uses that to bind every
// sub-repository to the same transaction.
func NewRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.Repository {
	return &repository{
		db:           db,
		cacheManager: cacheManager,
		user:         NewUserPostgreSQL(db),
		profile:      NewProfilePostgreSQL(db),
		course:       NewCoursePostgreSQL(db, cacheManager),
		category:     NewCategoryPostgreSQL(db, cacheManager),
		review:       NewReviewPostgreSQL(db, cacheManager),
	}
}

func (r *repository) User() repositories.UserRepository         { return r.user }
func (r *repository) Profile() repositories.ProfileRepository   { return r.profile }
func (r *repository) Course() repositories.CourseRepository     { return r.course }
func (r *repository) Category() repositories.CategoryRepository { return r.category }
func (r *repository) Review() repositories.ReviewRepository     { return r.review }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx, r.cacheManager))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// repositoryManager implements repositories.RepositoryManager.
type repositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (rm *repositoryManager) Initialize() error {
	if err := rm.config.DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Course{},
		&models.Category{},
		&models.Review{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	rm.repo = NewRepository(rm.config.DB, cache.NewCacheManager(rm.config.RedisClient))
	return nil
}

func (rm *repositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

func (rm *repositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return rm.repo.Ping(ctx)
}

func (rm *repositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
