package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/app"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/config"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/database"
	apphttp "github.com/Sathviksu/College-Placement-Management-Portal/internal/http"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/handlers"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/metrics"
	httpmw "github.com/Sathviksu/College-Placement-Management-Portal/internal/http/middleware"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/response"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/observability"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/repository/postgres"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db, err := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}, logger)
	if err != nil {
		logger.Fatalw("postgres unavailable", "error", err)
	}
	defer db.Close()
	redisClient, err := database.NewRedis(cfg.RedisURL, logger)
	if err != nil {
		logger.Fatalw("redis misconfigured", "error", err)
	}

	userRepo := postgres.NewUserRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	studentRepo := postgres.NewStudentRepository(db)
	hodRepo := postgres.NewHODRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)
	driveRepo := postgres.NewDriveRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	refreshRepo := postgres.NewRefreshTokenRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)

	authService := app.NewAuthService(userRepo, studentRepo, hodRepo, departmentRepo, refreshRepo, analyticsRepo, jwtProvider, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	studentService := app.NewStudentService(studentRepo, hodRepo, notificationRepo, analyticsRepo)
	companyService := app.NewCompanyService(companyRepo, analyticsRepo)
	driveService := app.NewDriveService(driveRepo, companyRepo, applicationRepo, analyticsRepo)
	applicationService := app.NewApplicationService(applicationRepo, driveRepo, studentRepo, notificationRepo, analyticsRepo)
	notificationService := app.NewNotificationService(notificationRepo)
	statsService := app.NewStatsService(statsRepo, hodRepo)

	var rateLimiter httpmw.Limiter
	if redisLimiter := httpmw.NewRedisLimiter(redisClient); redisLimiter != nil {
		rateLimiter = redisLimiter
	} else {
		rateLimiter = httpmw.NewRateLimiter()
	}

	authHandler := handlers.NewAuthHandler(authService, rateLimiter)
	studentHandler := handlers.NewStudentHandler(studentService, driveService, applicationService, rateLimiter)
	hodHandler := handlers.NewHODHandler(studentService, statsService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	driveHandler := handlers.NewDriveHandler(driveService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	statsHandler := handlers.NewStatsHandler(statsService)
	authMiddleware := httpmw.NewAuthMiddleware(jwtProvider)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:         authHandler,
		StudentHandler:      studentHandler,
		HODHandler:          hodHandler,
		CompanyHandler:      companyHandler,
		DriveHandler:        driveHandler,
		ApplicationHandler:  applicationHandler,
		NotificationHandler: notificationHandler,
		StatsHandler:        statsHandler,
		MetricsHandler:      handlers.NewMetricsHandler(collector),
		AuthMiddleware:      authMiddleware,
		Metrics:             collector,
		Logger:              logger,
		RequestTimeout:      cfg.RequestTimeout,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      corsHandler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infow("api listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalw("shutdown failed", "error", err)
	}
	logger.Info("server stopped cleanly")
}
