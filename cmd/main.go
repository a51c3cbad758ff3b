package main

import (
	"rental-intake/internal/handler"
	mid "rental-intake/internal/middleware"
	"rental-intake/internal/store"
	"rental-intake/pkg/config"
	"rental-intake/pkg/jwtutil"
	"rental-intake/pkg/logger"
	"rental-intake/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting rental-intake",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized")

	// Initialize storage
	if err := store.Init(appConfig); err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	prometheus.SetDemoMode(store.DemoMode())
	log.Info("Storage initialized",
		zap.String("driver", appConfig.Storage.Driver),
		zap.Bool("demo_mode", store.DemoMode()))

	mid.BootstrapEmail = appConfig.Admin.BootstrapEmail

	// Wire handler collaborators (notifier, geocoder, upload policy, drafts)
	handler.Init(appConfig)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public routes
	e.POST("/applications", handler.SubmitApplication)
	e.POST("/leads", handler.SubmitLead)
	e.GET("/vehicles", handler.ListAvailableVehicles)
	e.GET("/address/search", handler.SearchAddress)
	e.POST("/auth/login", handler.Login)
	e.POST("/auth/register", handler.Register)

	// Draft wizard routes
	drafts := e.Group("/drafts")
	drafts.POST("", handler.CreateDraft)
	drafts.GET("/:id", handler.GetDraft)
	drafts.PATCH("/:id", handler.PatchDraft)
	drafts.POST("/:id/navigate", handler.NavigateDraft)
	drafts.PUT("/:id/signature", handler.SetDraftSignature)
	drafts.DELETE("/:id/signature", handler.ClearDraftSignature)
	drafts.POST("/:id/documents/:slot", handler.UploadDraftDocument)
	drafts.POST("/:id/submit", handler.SubmitDraft)
	drafts.DELETE("/:id", handler.DiscardDraft)

	// Authenticated user routes
	api := e.Group("/api", mid.AuthMiddleware)
	api.GET("/profile", handler.GetProfile)
	api.PATCH("/profile", handler.UpdateProfile)
	api.GET("/applications", handler.ListMyApplications)

	// Admin routes
	admin := e.Group("/api/admin", mid.AuthMiddleware, mid.RequireAdmin)
	admin.GET("/applications", handler.ListApplications)
	admin.PATCH("/applications/:id", handler.UpdateApplication)
	admin.PUT("/applications/:id/status", handler.UpdateApplicationStatus)
	admin.GET("/leads", handler.ListLeads)
	admin.GET("/users", handler.ListUsers)
	admin.PUT("/users/:uid/role", handler.UpdateUserRole)
	admin.DELETE("/users/:uid", handler.DeleteUser)
	admin.GET("/fleet", handler.ListVehicles)
	admin.POST("/fleet", handler.AddVehicle)
	admin.PUT("/fleet/:id", handler.UpdateVehicle)
	admin.DELETE("/fleet/:id", handler.DeleteVehicle)
	admin.GET("/sms-templates", handler.ListSmsTemplates)
	admin.PUT("/sms-templates", handler.SaveSmsTemplate)
	admin.GET("/email-templates", handler.ListEmailTemplates)
	admin.PUT("/email-templates", handler.SaveEmailTemplate)
	admin.GET("/settings", handler.GetSettings)
	admin.PUT("/settings", handler.SaveSettings)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
