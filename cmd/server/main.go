package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"eventmate/internal/auth"
	"eventmate/internal/config"
	apphttp "eventmate/internal/http"
	"eventmate/internal/repository/sqlite"
	"eventmate/internal/service"
	"eventmate/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}
	if cfg.Auth.AdminCode == "" {
		logger.Warn("auth admin code is empty, admin sign-ups are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	regRepo := sqlite.NewRegistrationRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := eventRepo.Init(ctx); err != nil {
		logger.Fatalf("init event repository: %v", err)
	}
	if err := regRepo.Init(ctx); err != nil {
		logger.Fatalf("init registration repository: %v", err)
	}

	userService := service.NewUserService(userRepo, cfg.Auth.AdminCode)
	eventService := service.NewEventService(eventRepo)
	registrationService := service.NewRegistrationService(regRepo, eventRepo)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}
	rosterService := service.NewRosterService(registrationService, storageSvc, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)

	cache, closeCache := buildCache(ctx, cfg, logger)
	defer closeCache()

	var authLimiter *apphttp.RateLimiter
	if cfg.RateLimit.AuthRPS > 0 {
		authLimiter = apphttp.NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst, 10*time.Minute)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Fatalf("trusted proxies: %v", err)
	}
	handler := apphttp.NewHandler(apphttp.Options{
		Users:         userService,
		Events:        eventService,
		Registrations: registrationService,
		Rosters:       rosterService,
		Tokens:        auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute, "eventmate"),
		Cache:         cache,
		AuthLimiter:   authLimiter,
		Logger:        logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// buildStorage returns a nil service when no bucket is configured; roster exports are then disabled.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not configured, roster exports disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}

// buildCache connects to Redis when an address is configured. An unreachable
// server is logged and the API runs uncached.
func buildCache(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*apphttp.ResponseCache, func()) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("redis %s unreachable, response cache disabled: %v", cfg.Redis.Addr, err)
		_ = rdb.Close()
		return nil, func() {}
	}

	logger.Infof("caching public event reads in redis %s", cfg.Redis.Addr)
	cache := apphttp.NewResponseCache(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second, logger)
	return cache, func() { _ = rdb.Close() }
}
