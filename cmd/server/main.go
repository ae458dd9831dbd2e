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

	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/auth"
	"github.com/Mastel22/boondocks-bn-backend/internal/booking"
	"github.com/Mastel22/boondocks-bn-backend/internal/cache"
	"github.com/Mastel22/boondocks-bn-backend/internal/config"
	"github.com/Mastel22/boondocks-bn-backend/internal/database"
	"github.com/Mastel22/boondocks-bn-backend/internal/email"
	"github.com/Mastel22/boondocks-bn-backend/internal/handlers"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
	"github.com/Mastel22/boondocks-bn-backend/internal/reservations"
	"github.com/Mastel22/boondocks-bn-backend/internal/server"
	"github.com/Mastel22/boondocks-bn-backend/internal/sms"
	"github.com/Mastel22/boondocks-bn-backend/internal/storage"
	"github.com/Mastel22/boondocks-bn-backend/internal/telemetry"
	"github.com/Mastel22/boondocks-bn-backend/internal/twofactor"
	"github.com/Mastel22/boondocks-bn-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== Barefoot Nomad server starting ===",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, cfg.Environment)
	if err != nil {
		logger.Log.Warn("Tracing disabled", zap.Error(err))
		shutdownTracer = func(context.Context) error { return nil }
	}

	if err := database.Initialize(cfg); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close(database.DB)

	if err := database.Migrate(database.DB); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	if err := validation.Register(); err != nil {
		logger.FatalWithFields("Failed to register validation rules", err)
	}

	// Redis is optional; without it the hotel cache and auth rate limits stay in process
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password)
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var store cache.Store
	if redisClient != nil {
		store = cache.NewRedisStore(redisClient, "barefoot:")
	} else {
		memory, err := cache.NewMemoryStore(cfg.Cache.MaxCost)
		if err != nil {
			logger.FatalWithFields("Failed to create cache", err)
		}
		defer memory.Close()
		store = memory
	}

	mailer, err := email.New(ctx, cfg)
	if err != nil {
		logger.FatalWithFields("Failed to initialize mailer", err)
	}
	sender, err := sms.New(ctx, cfg)
	if err != nil {
		logger.FatalWithFields("Failed to initialize SMS sender", err)
	}

	var uploader storage.ImageUploader
	var s3Uploader *storage.S3Uploader
	if cfg.AWS.S3Bucket != "" {
		s3Uploader, err = storage.NewS3Uploader(ctx, cfg.AWS.Region, cfg.AWS.S3Bucket, cfg.AWS.CDNURL)
		if err != nil {
			logger.Log.Warn("S3 unavailable, image uploads disabled", zap.Error(err))
			s3Uploader = nil
		} else {
			uploader = s3Uploader
		}
	}

	// BAREFOOT_REQUIRE_<SERVICE> turns a degraded start into a failed one
	serviceValidator := validation.NewServiceValidator(serviceChecks(redisClient, s3Uploader))
	if err := serviceValidator.ValidateServices(ctx); err != nil {
		logger.FatalWithFields("Required service unavailable", err)
	}

	users := repository.NewUserRepository(database.DB)
	trips := repository.NewTripRepository(database.DB)
	twoFA := twofactor.NewService(users, sender)
	authService := auth.NewService(cfg, users, mailer, twoFA)
	bookingService := booking.NewService(booking.Options{
		Locations: repository.NewLocationRepository(database.DB),
		Hotels:    repository.NewHotelRepository(database.DB),
		Bookings:  repository.NewBookingRepository(database.DB),
		Trips:     trips,
		Cache:     store,
		CacheTTL:  cfg.Cache.HotelTTL,
		Uploader:  uploader,
	})

	roomRelease := reservations.NewReleaseService(trips, cfg.RoomReleaseInterval)
	roomRelease.Start()
	defer roomRelease.Stop()

	h := handlers.NewHandlers(handlers.Deps{
		Auth:          authService,
		TwoFA:         twoFA,
		Booking:       bookingService,
		DB:            database.DB,
		Redis:         redisClient,
		SecureCookies: cfg.IsProduction(),
	})

	r := server.NewRouter(server.Options{
		Config:        cfg,
		Handlers:      h,
		Authenticator: authService,
		Redis:         redisClient,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Log.Warn("Failed to flush traces", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}

// serviceChecks probes the external services. A service that failed to start
// gets a nil check, which fails validation when it is required.
func serviceChecks(redisClient *cache.RedisClient, s3Uploader *storage.S3Uploader) map[string]validation.Check {
	checks := map[string]validation.Check{
		"database": func(ctx context.Context) error {
			return database.Health(ctx, database.DB)
		},
		"redis": nil,
		"s3":    nil,
	}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}
	if s3Uploader != nil {
		checks["s3"] = s3Uploader.CheckBucketAccess
	}
	return checks
}
