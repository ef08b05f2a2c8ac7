package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/snakewatch-io/api-service/internal/adapter/http/handler"
	"github.com/snakewatch-io/api-service/internal/adapter/http/middleware"
	"github.com/snakewatch-io/api-service/internal/adapter/repository/postgres"
	"github.com/snakewatch-io/api-service/internal/domain/service"
	"github.com/snakewatch-io/api-service/internal/infrastructure/config"
	"github.com/snakewatch-io/api-service/internal/usecase"
)

// Deps carries the externally-constructed dependencies of the router
type Deps struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Classifier service.Classifier
	Notifier   usecase.Notifier
	Logger     *zap.Logger
	Config     *config.Config
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize repositories
	detectionRepo := postgres.NewDetectionRepository(deps.DB)
	incidentRepo := postgres.NewIncidentRepository(deps.DB)
	userRepo := postgres.NewUserRepository(deps.DB)

	// Initialize usecases
	detectionUC := usecase.NewDetectionUsecase(detectionRepo, deps.Redis, deps.Logger)
	classificationUC := usecase.NewClassificationUsecase(deps.Classifier, detectionRepo, deps.Notifier, deps.Logger)
	incidentUC := usecase.NewIncidentUsecase(incidentRepo, detectionRepo)
	userUC := usecase.NewUserUsecase(userRepo)

	// Initialize handlers
	classifyHandler := handler.NewClassifyHandler(classificationUC, deps.Config.Server.Production)
	detectionHandler := handler.NewDetectionHandler(detectionUC, classificationUC)
	incidentHandler := handler.NewIncidentHandler(incidentUC)
	userHandler := handler.NewUserHandler(userUC)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/classify", classifyHandler.Classify)

		detections := v1.Group("/detections")
		{
			detections.POST("", detectionHandler.CreateDetection)
			detections.GET("", detectionHandler.ListDetections)
			detections.GET("/stats", detectionHandler.GetStats)
			detections.GET("/:id", detectionHandler.GetDetection)
			detections.DELETE("/:id", detectionHandler.DeleteDetection)
			detections.POST("/:id/process", detectionHandler.ProcessDetection)
		}

		incidents := v1.Group("/incidents")
		{
			incidents.POST("", incidentHandler.CreateIncident)
			incidents.GET("", incidentHandler.ListIncidents)
			incidents.GET("/:id", incidentHandler.GetIncident)
			incidents.PATCH("/:id", incidentHandler.UpdateIncidentStatus)
			incidents.POST("/:id/steps/:stepId/complete", incidentHandler.CompleteStep)
		}

		admin := v1.Group("/admin", middleware.AdminAuth(deps.Config.Admin.Token))
		{
			admin.GET("/users", userHandler.ListUsers)
		}
	}

	return router
}
