package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/marketplace-service/internal/auth"
	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/services"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
)

type HandlerManager struct {
	authHandler     *AuthHandler
	userHandler     *UserHandler
	profileHandler  *ProfileHandler
	courseHandler   *CourseHandler
	categoryHandler *CategoryHandler
	reviewHandler   *ReviewHandler

	issuer *auth.TokenIssuer
	repo   repositories.Repository
	logger utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	issuer *auth.TokenIssuer,
	repo repositories.Repository,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:     NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:     NewUserHandler(serviceManager.User(), logger),
		profileHandler:  NewProfileHandler(serviceManager.Profile(), logger),
		courseHandler:   NewCourseHandler(serviceManager.Course(), serviceManager.Export(), logger),
		categoryHandler: NewCategoryHandler(serviceManager.Category(), logger),
		reviewHandler:   NewReviewHandler(serviceManager.Review(), logger),
		issuer:          issuer,
		repo:            repo,
		logger:          logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	authed := AuthMiddleware(hm.issuer, hm.repo, hm.logger)
	maybeAuthed := OptionalAuthMiddleware(hm.issuer, hm.repo, hm.logger)
	adminOnly := RequireRoleMiddleware(models.RoleAdmin)
	canTeach := RequireRoleMiddleware(models.RoleInstructor, models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", hm.authHandler.Register)
			authGroup.POST("/login", hm.authHandler.Login)
			authGroup.GET("/me", authed, hm.authHandler.Me)
		}

		// Course routes: reads are public, writes require a principal
		courses := v1.Group("/courses")
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", maybeAuthed, hm.courseHandler.GetCourse)
			courses.GET("/:id/reviews", hm.reviewHandler.ListCourseReviews)

			courses.POST("", authed, canTeach, hm.courseHandler.CreateCourse)
			courses.PUT("/:id", authed, hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", authed, hm.courseHandler.DeleteCourse)

			courses.POST("/:id/enroll", authed, hm.courseHandler.Enroll)
			courses.DELETE("/:id/enroll", authed, hm.courseHandler.Unenroll)

			courses.GET("/:id/roster/export", authed, hm.courseHandler.ExportRoster)
		}

		// Category routes: taxonomy writes are admin territory
		categories := v1.Group("/categories")
		{
			categories.GET("", hm.categoryHandler.ListCategories)
			categories.GET("/:id", hm.categoryHandler.GetCategory)

			categories.POST("", authed, adminOnly, hm.categoryHandler.CreateCategory)
			categories.PUT("/:id", authed, adminOnly, hm.categoryHandler.UpdateCategory)
			categories.DELETE("/:id", authed, adminOnly, hm.categoryHandler.DeleteCategory)
		}

		// Review routes
		reviews := v1.Group("/reviews")
		{
			reviews.GET("/course/:id", hm.reviewHandler.ListCourseReviews)
			reviews.POST("", authed, hm.reviewHandler.CreateReview)
			reviews.PUT("/:id", authed, hm.reviewHandler.UpdateReview)
			reviews.DELETE("/:id", authed, hm.reviewHandler.DeleteReview)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(authed)
		{
			users.GET("", adminOnly, hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", adminOnly, hm.userHandler.DeleteUser)
		}

		// Profile routes
		profiles := v1.Group("/profiles")
		profiles.Use(authed)
		{
			profiles.GET("/me", hm.profileHandler.GetMyProfile)
			profiles.GET("/:user_id", hm.profileHandler.GetProfile)
			profiles.PUT("/:user_id", hm.profileHandler.UpdateProfile)
		}
	}
}

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "marketplace-service",
	})
}
