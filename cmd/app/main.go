package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-marketplace-go/internal/bootstrap"
	"github.com/mo-amir99/course-marketplace-go/internal/features/enrollment"
	"github.com/mo-amir99/course-marketplace-go/internal/http/routes"
	"github.com/mo-amir99/course-marketplace-go/pkg/cache"
	"github.com/mo-amir99/course-marketplace-go/pkg/config"
	"github.com/mo-amir99/course-marketplace-go/pkg/database"
	"github.com/mo-amir99/course-marketplace-go/pkg/email"
	"github.com/mo-amir99/course-marketplace-go/pkg/jobs"
	"github.com/mo-amir99/course-marketplace-go/pkg/logger"
	pkgmiddleware "github.com/mo-amir99/course-marketplace-go/pkg/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/payments"
	"github.com/mo-amir99/course-marketplace-go/pkg/request"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	request.Setup()
	response.SetDebug(!cfg.IsProduction())

	db, err := database.ConnectWithRetry(ctx, cfg.Database, appLogger, 5, time.Second)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	if err := bootstrap.ApplyDatabaseMigrations(ctx, db, cfg, appLogger); err != nil {
		appLogger.Error("migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := bootstrap.EnsureDefaultAdmin(ctx, db, cfg.Admin, cfg.Auth.BcryptCost, appLogger); err != nil {
		appLogger.Error("ensure default admin failed", slog.String("error", err.Error()))
	}

	cacheClient, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Warn("redis unavailable, using in-memory cache", slog.String("error", err.Error()))
		cacheClient = cache.NewMemoryCache()
	}
	defer cacheClient.Close()

	var provider payments.Provider
	stripeProvider, err := payments.NewStripe(cfg.Stripe.SecretKey, cfg.Stripe.HTTPTimeout)
	switch {
	case errors.Is(err, payments.ErrNotConfigured):
		appLogger.Warn("payment provider disabled", slog.String("env_var", "STRIPE_SECRET"))
	case err != nil:
		appLogger.Error("payment provider init failed", slog.String("error", err.Error()))
		os.Exit(1)
	default:
		provider = stripeProvider
	}

	emailClient := email.NewClient(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		Secure:   cfg.Email.Secure,
	})

	rateLimiter := pkgmiddleware.NewRateLimiter(cfg.RateLimit.GlobalRequests, cfg.RateLimit.GlobalWindow)

	scheduler := jobs.NewScheduler(appLogger, time.Minute)
	scheduler.AddJob(enrollment.NewExpiryJob(enrollment.NewStore(db), cfg.Stripe.IntentTTL, appLogger), time.Hour)
	scheduler.AddJob(rateLimiter, time.Hour)
	scheduler.Start()
	defer scheduler.Stop()

	router := gin.New()
	router.Use(routes.GlobalMiddleware(cfg, appLogger, rateLimiter)...)

	routes.Register(router, cfg, routes.Dependencies{
		DB:       db,
		Logger:   appLogger,
		Cache:    cacheClient,
		Mailer:   emailClient,
		Payments: provider,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}
}
