package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/training-scheduler/internal/api"
	"alcyxob/training-scheduler/internal/config"
	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/lock"
	"alcyxob/training-scheduler/internal/logger"
	"alcyxob/training-scheduler/internal/repository/mongo"
	"alcyxob/training-scheduler/internal/schedule"
	"alcyxob/training-scheduler/internal/service"
	"alcyxob/training-scheduler/internal/storage"
	"alcyxob/training-scheduler/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Training Scheduler API
// @version 1.0
// @description Booking, availability and training-day API for a personal trainer's calendar.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("FATAL: Could not create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zapLogger.Info("Starting Training Scheduler Server...", zap.String("env", cfg.App.Env))

	if cfg.JWT.Secret == "" {
		zapLogger.Fatal("JWT_SECRET must be set")
	}

	loc, err := cfg.App.Location()
	if err != nil {
		zapLogger.Fatal("Invalid timezone", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}
	// Older session records carry the date as a datetime written in this zone.
	domain.SetLegacyLocation(loc)
	breaks, err := schedule.PolicyByName(cfg.Schedule.BreakPolicy)
	if err != nil {
		zapLogger.Fatal("Invalid break policy", zap.Error(err))
	}
	grid, err := schedule.NewGrid(cfg.Schedule.DayStart, cfg.Schedule.DayEnd, cfg.Schedule.SlotMinutes)
	if err != nil {
		zapLogger.Fatal("Invalid slot grid", zap.Error(err))
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		zapLogger.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		zapLogger.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			zapLogger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	zapLogger.Info("Database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	// The unique assignment indexes back the ambiguity check, so startup waits for them.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		cancelIndex()
		zapLogger.Fatal("Could not create indexes", zap.Error(err))
	}
	cancelIndex()

	// --- Initialize Repositories ---
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	customerRepo := mongo.NewMongoCustomerRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)

	// --- Booking Lock ---
	var locker lock.Locker = lock.NewLocal(cfg.Redis.LockWait)
	if cfg.Redis.Enabled {
		redisCtx, cancelRedis := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := lock.NewRedisClient(redisCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancelRedis()
		if err != nil {
			zapLogger.Fatal("Could not connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		locker = lock.NewRedis(redisClient, cfg.Redis.LockTTL, cfg.Redis.LockWait)
		zapLogger.Info("Using Redis booking lock", zap.String("addr", cfg.Redis.Addr))
	} else {
		zapLogger.Warn("Redis disabled; booking lock is per process")
	}

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	} else {
		zapLogger.Warn("S3 not configured; weekly exports are disabled")
	}

	// --- Initialize Services ---
	scheduleService := service.NewScheduleService(sessionRepo, customerRepo, locker, service.ScheduleOptions{
		Breaks:         breaks,
		Grid:           grid,
		SessionMinutes: cfg.Schedule.SessionMinutes,
		Location:       loc,
	}, zapLogger)
	trainingService := service.NewTrainingService(customerRepo, workoutRepo, assignmentRepo, sessionRepo, zapLogger)
	exportService := service.NewExportService(sessionRepo, customerRepo, workoutRepo, assignmentRepo, fileStorage, cfg.S3.ExportURLExpiry, zapLogger)

	// --- Background Sweeper ---
	var sweeper *worker.Sweeper
	if cfg.Schedule.AutoCompleteSpec != "" {
		sweeper, err = worker.NewSweeper(scheduleService, cfg.Schedule.AutoCompleteSpec, loc, zapLogger)
		if err != nil {
			zapLogger.Fatal("Could not schedule auto-complete", zap.Error(err))
		}
		sweeper.Start()
	}

	// --- Initialize Gin Engine ---
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(zapLogger))
	api.SetupRoutes(router, cfg.JWT.Secret, scheduleService, trainingService, exportService, zapLogger)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if sweeper != nil {
		if err := sweeper.Stop(ctxShutdown); err != nil {
			zapLogger.Warn("Auto-complete sweeper did not stop in time", zap.Error(err))
		}
	}

	zapLogger.Info("Server exiting.")
}
