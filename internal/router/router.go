// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/recordsdesk/rmd-backend/internal/config"
	"github.com/recordsdesk/rmd-backend/internal/handlers"
	"github.com/recordsdesk/rmd-backend/internal/middleware"
	"github.com/recordsdesk/rmd-backend/internal/models"
	"github.com/recordsdesk/rmd-backend/internal/notify"
	"github.com/recordsdesk/rmd-backend/internal/services"
	"github.com/recordsdesk/rmd-backend/internal/utils"
	"github.com/recordsdesk/rmd-backend/internal/workflow"
)

func Initialize(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// Initialize workflow components
	deadlines := workflow.NewDeadlineTracker(cfg.Workflow.ReleaseSLA(), cfg.Workflow.ReturnSLA())
	engine := workflow.NewEngine(deadlines)
	dispatcher := notify.NewDispatcher(db, rdb)

	// Initialize services
	authService := services.NewAuthService(db, cfg)
	requestService := services.NewRequestService(db, engine, dispatcher)
	extensionService := services.NewExtensionService(db, cfg.Workflow, dispatcher)
	notificationService := services.NewNotificationService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	requestHandler := handlers.NewRequestHandler(requestService, authService)
	dashboardHandler := handlers.NewDashboardHandler(requestService)
	extensionHandler := handlers.NewExtensionHandler(extensionService, authService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Requester routes
		requests := v1.Group("/requests")
		requests.Use(middleware.AuthRequired())
		{
			requests.POST("", requestHandler.CreateRequest)
			requests.GET("", requestHandler.ListMyRequests)
			requests.GET("/status", requestHandler.LatestStatus)
			requests.GET("/search", requestHandler.SearchRequests)
			requests.GET("/:id", requestHandler.GetRequest)
		}

		// Authorization pool routes
		authorization := v1.Group("/authorization")
		authorization.Use(middleware.AuthRequired(), middleware.AccountRequired(models.AccountTypeAuthorization))
		{
			authorization.POST("/request", requestHandler.AuthorizeRequest)
			authorization.GET("/requests", requestHandler.ListPendingAuthorization)
			authorization.GET("/requests/count", requestHandler.CountPendingAuthorization)
			authorization.GET("/requests/treated", requestHandler.ListTreatedAuthorization)
		}

		// Approval pool routes
		approval := v1.Group("/approval")
		approval.Use(middleware.AuthRequired(), middleware.AccountRequired(models.AccountTypeApproval))
		{
			approval.POST("/request", requestHandler.ApproveRequest)
			approval.GET("/requests", requestHandler.ListPendingApproval)
			approval.GET("/requests/count", requestHandler.CountPendingApproval)
		}

		// Managing pool routes: release, return acknowledgement and dashboards
		release := v1.Group("/release")
		release.Use(middleware.AuthRequired(), middleware.AccountRequired(models.AccountTypeManaging))
		{
			release.POST("/request", requestHandler.ReleaseFile)
			release.GET("/requests", requestHandler.ListPendingRelease)
			release.GET("/requests/count", requestHandler.CountPendingRelease)
		}

		// Requester custody acknowledgements
		receive := v1.Group("/receive")
		receive.Use(middleware.AuthRequired())
		{
			receive.POST("/request", requestHandler.ConfirmReceipt)
			receive.GET("/requests/accepted",
				middleware.AccountRequired(models.AccountTypeManaging),
				requestHandler.ListReceived)
		}

		ret := v1.Group("/return")
		ret.Use(middleware.AuthRequired())
		{
			ret.POST("/request", requestHandler.ReturnFile)
			ret.POST("/acknowledged",
				middleware.AccountRequired(models.AccountTypeManaging),
				requestHandler.AcknowledgeReturn)
		}

		// Overdue dashboards for the managing pool
		dashboard := v1.Group("/dashboard")
		dashboard.Use(middleware.AuthRequired(), middleware.AccountRequired(models.AccountTypeManaging))
		{
			dashboard.GET("/overdue/releases", dashboardHandler.OverdueReleases)
			dashboard.GET("/overdue/returns", dashboardHandler.OverdueReturns)
		}

		// Time extensions
		extensions := v1.Group("/extensions")
		extensions.Use(middleware.AuthRequired())
		{
			extensions.POST("", extensionHandler.CreateExtension)
			extensions.GET("",
				middleware.AccountRequired(models.AccountTypeManaging),
				extensionHandler.ListPendingExtensions)
			extensions.PATCH("/:id",
				middleware.AccountRequired(models.AccountTypeManaging),
				extensionHandler.ResolveExtension)
		}

		// Notifications
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/latest", notificationHandler.LatestNotification)
		}
	}

	return r
}
