// Package api provides HTTP routing and server configuration for the EduCert
// platform. It wires together handlers, middleware, and services to create the
// application's API endpoints.
package api

import (
	"github.com/Educertfication/Educert-v2/internal/api/handlers"
	"github.com/Educertfication/Educert-v2/internal/api/middleware"
	"github.com/Educertfication/Educert-v2/internal/config"
	"github.com/Educertfication/Educert-v2/internal/database"
	"github.com/Educertfication/Educert-v2/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *database.Database, logger *zap.Logger) *gin.Engine {
	// Set Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg))

	// Initialize services. The registry's mint gate is wired to the factory's
	// authorization predicate before any request is served.
	userService := service.NewUserService(db, cfg)
	factoryService := service.NewFactoryService(db, cfg)
	registryService := service.NewRegistryService(db, cfg)
	if err := registryService.InitializeFactory(factoryService); err != nil {
		logger.Fatal("Failed to initialize certificate registry", zap.Error(err))
	}
	courseService := service.NewCourseService(db, cfg, registryService)
	institutionService := service.NewInstitutionService(db, courseService)
	eventService := service.NewEventService(db)

	// Initialize handlers
	setupHandler := handlers.NewSetupHandler(userService, logger)
	authHandler := handlers.NewAuthHandler(userService, logger)
	factoryHandler := handlers.NewFactoryHandler(factoryService, logger)
	institutionHandler := handlers.NewInstitutionHandler(institutionService, logger)
	courseHandler := handlers.NewCourseHandler(courseService, logger)
	creatorHandler := handlers.NewCreatorHandler(courseService, logger)
	certificateHandler := handlers.NewCertificateHandler(registryService, courseService, logger)
	eventsHandler := handlers.NewEventsHandler(eventService, logger)

	// Public routes
	public := router.Group("/api/v1")
	{
		// Setup routes (no auth required)
		public.GET("/setup/status", setupHandler.GetStatus)
		public.POST("/setup", setupHandler.PerformSetup)

		// Auth routes
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)

		// Directory reads
		public.GET("/accounts", factoryHandler.ListAccounts)
		public.GET("/accounts/:registrant", factoryHandler.GetAccount)
		public.GET("/factory/status", factoryHandler.GetFactoryStatus)
		public.GET("/factory/course-manager", factoryHandler.GetCourseManager)

		// Institution reads
		public.GET("/institutions/:address", institutionHandler.GetInstitution)
		public.GET("/institutions/:address/stats", institutionHandler.GetStats)

		// Course catalog reads
		public.GET("/courses", courseHandler.ListCourses)
		public.GET("/courses/:id", courseHandler.GetCourse)
		public.GET("/courses/:id/students", courseHandler.ListStudents)
		public.GET("/students/:address/courses", courseHandler.ListStudentCourses)
		public.GET("/creators/:address", creatorHandler.GetCreator)

		// Registry reads and credential verification
		public.GET("/certificates/:id", certificateHandler.GetCertificateType)
		public.GET("/certificates/:id/balance", certificateHandler.GetBalance)
		public.GET("/verify", certificateHandler.Verify)

		// Event log for the indexer
		public.GET("/events", eventsHandler.ListEvents)
	}

	// Protected routes (require authentication)
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		// Auth
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		// Account factory
		protected.POST("/accounts", factoryHandler.CreateAccount)
		protected.GET("/me/account", factoryHandler.GetMyAccount)
		protected.PUT("/accounts/:registrant/activate", factoryHandler.ActivateAccount)
		protected.PUT("/accounts/:registrant/deactivate", factoryHandler.DeactivateAccount)
		protected.PUT("/factory/pause", factoryHandler.Pause)
		protected.PUT("/factory/unpause", factoryHandler.Unpause)
		protected.PUT("/factory/course-manager", factoryHandler.SetCourseManager)

		// Creator authorization (platform owner)
		protected.POST("/creators", creatorHandler.AuthorizeCreator)
		protected.PUT("/creators/:address", creatorHandler.UpdateCreator)
		protected.DELETE("/creators/:address", creatorHandler.DeauthorizeCreator)

		// Institution account (proprietor)
		protected.PUT("/institutions/:address", institutionHandler.UpdateInstitution)
		protected.PUT("/institutions/:address/activate", institutionHandler.Activate)
		protected.PUT("/institutions/:address/deactivate", institutionHandler.Deactivate)
		protected.PUT("/institutions/:address/transfer-ownership", institutionHandler.TransferOwnership)
		protected.PUT("/institutions/:address/course-manager", institutionHandler.SetCourseManager)
		protected.POST("/institutions/:address/courses", institutionHandler.CreateCourse)
		protected.PUT("/institutions/:address/courses/:id", institutionHandler.UpdateCourse)
		protected.PUT("/institutions/:address/courses/:id/activate", institutionHandler.ActivateCourse)
		protected.PUT("/institutions/:address/courses/:id/deactivate", institutionHandler.DeactivateCourse)
		protected.POST("/institutions/:address/courses/:id/certificate", institutionHandler.IssueCertificate)
		protected.DELETE("/institutions/:address/courses/:id/certificate", institutionHandler.RevokeCertificate)

		// Student enrollment flow
		protected.POST("/courses/:id/enroll", courseHandler.Enroll)
		protected.POST("/courses/:id/complete", courseHandler.Complete)
		protected.GET("/courses/:id/enrollment", courseHandler.GetEnrollment)
	}

	return router
}
