package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/marketplace-service/internal/auth"
	"github.com/SAP-F-2025/marketplace-service/internal/events"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
	"github.com/SAP-F-2025/marketplace-service/internal/validator"
)

type serviceManager struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger

	auth     AuthService
	user     UserService
	profile  ProfileService
	course   CourseService
	category CategoryService
	review   ReviewService
	export   ExportService
}

func NewServiceManager(
	repo repositories.Repository,
	issuer *auth.TokenIssuer,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger utils.Logger,
) ServiceManager {
	relationships := NewRelationshipService(repo, logger)

	return &serviceManager{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		auth:      NewAuthService(repo, issuer, v, publisher, logger),
		user:      NewUserService(repo, v, logger),
		profile:   NewProfileService(repo, v, logger),
		course:    NewCourseService(repo, relationships, v, publisher, logger),
		category:  NewCategoryService(repo, v, logger),
		review:    NewReviewService(repo, v, publisher, logger),
		export:    NewExportService(repo, logger),
	}
}

func (m *serviceManager) Auth() AuthService         { return m.auth }
func (m *serviceManager) User() UserService         { return m.user }
func (m *serviceManager) Profile() ProfileService   { return m.profile }
func (m *serviceManager) Course() CourseService     { return m.course }
func (m *serviceManager) Category() CategoryService { return m.category }
func (m *serviceManager) Review() ReviewService     { return m.review }
func (m *serviceManager) Export() ExportService     { return m.export }

func (m *serviceManager) Initialize(ctx context.Context) error {
	if err := m.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository not reachable: %w", err)
	}
	m.logger.InfoContext(ctx, "service manager initialized")
	return nil
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			m.logger.WarnContext(ctx, "failed to close event publisher", "error", err)
		}
	}
	if err := m.repo.Close(); err != nil {
		return fmt.Errorf("failed to close repository: %w", err)
	}
	m.logger.InfoContext(ctx, "service manager stopped")
	return nil
}
