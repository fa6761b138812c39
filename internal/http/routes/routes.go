package routes

import (
	"compress/gzip"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/internal/features/auth"
	"github.com/mo-amir99/course-marketplace-go/internal/features/completion"
	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/features/enrollment"
	"github.com/mo-amir99/course-marketplace-go/internal/features/instructor"
	"github.com/mo-amir99/course-marketplace-go/internal/features/product"
	"github.com/mo-amir99/course-marketplace-go/internal/features/review"
	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/internal/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/cache"
	"github.com/mo-amir99/course-marketplace-go/pkg/config"
	"github.com/mo-amir99/course-marketplace-go/pkg/email"
	"github.com/mo-amir99/course-marketplace-go/pkg/health"
	"github.com/mo-amir99/course-marketplace-go/pkg/metrics"
	pkgmiddleware "github.com/mo-amir99/course-marketplace-go/pkg/middleware"
	"github.com/mo-amir99/course-marketplace-go/pkg/payments"
	"github.com/mo-amir99/course-marketplace-go/pkg/request"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Dependencies are the shared clients handed to feature services.
type Dependencies struct {
	DB     *gorm.DB
	Logger *slog.Logger
	Cache  cache.Client
	Mailer email.Sender
	// Payments is nil when no provider key is configured.
	Payments payments.Provider
}

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, cfg *config.Config, deps Dependencies) {
	logger := deps.Logger

	// Health check endpoints (no /api prefix for Kubernetes probes)
	extra := map[string]health.Pinger{}
	if redisClient, ok := deps.Cache.(*cache.RedisClient); ok {
		extra["redis"] = redisClient
	}
	healthHandler := health.NewHandler(deps.DB, logger, extra)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.Version)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if !cfg.IsProduction() {
		engine.GET("/debug/db-stats", healthHandler.DBStats)
	}

	engine.NoRoute(request.NotFound)

	api := engine.Group("/api/v1")

	authMiddleware := middleware.Initialize(deps.DB, cfg.Auth.JWTSecret, cfg.Auth.CookieName, logger)
	signedIn := authMiddleware.RequireRoles()
	instructorOnly := authMiddleware.RequireRoles(types.RoleInstructor)
	adminOnly := authMiddleware.RequireRoles(types.RoleAdmin)

	limiter := pkgmiddleware.NewStoreLimiter(deps.Cache, logger)
	sensitive := limiter.Limit("auth", cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow)

	users := user.NewStore(deps.DB)
	courses := course.NewStore(deps.DB)
	enrollments := enrollment.NewStore(deps.DB)

	authService := auth.NewService(users, deps.Mailer, auth.Config{
		JWTSecret:      cfg.Auth.JWTSecret,
		TokenExpiry:    cfg.Auth.TokenExpiry,
		BcryptCost:     cfg.Auth.BcryptCost,
		ResetCodeChars: cfg.Auth.ResetCodeChars,
		FrontendURL:    cfg.Email.FrontendURL,
	}, logger)
	authHandler := auth.NewHandler(authService, logger, auth.CookieConfig{
		Name:   cfg.Auth.CookieName,
		MaxAge: cfg.Auth.CookieMaxAge,
		Domain: cfg.Auth.CookieDomain,
		Secure: cfg.IsProduction(),
	}, cfg.IsProduction(), cfg.Email.TestAddress)
	auth.RegisterRoutes(api, authHandler, signedIn, sensitive)

	courseService := course.NewService(courses, deps.Cache, cfg.Redis.CacheTTL, logger)
	course.RegisterRoutes(api, course.NewHandler(courseService, logger), instructorOnly)

	enrollmentService := enrollment.NewService(enrollments, courses, users, deps.Payments, enrollment.CheckoutConfig{
		Currency:    cfg.Stripe.Currency,
		PlatformFee: cfg.Stripe.PlatformFee,
		SuccessURL:  cfg.Stripe.SuccessURL,
		CancelURL:   cfg.Stripe.CancelURL,
	}, logger)
	enrollment.RegisterRoutes(api, enrollment.NewHandler(enrollmentService, logger), signedIn)

	completionService := completion.NewService(completion.NewStore(deps.DB), courses, logger)
	completion.RegisterRoutes(api, completion.NewHandler(completionService, logger), signedIn)

	reviewService := review.NewService(review.NewStore(deps.DB), courses, enrollments, courseService, logger)
	review.RegisterRoutes(api, review.NewHandler(reviewService, logger), signedIn)

	instructorService := instructor.NewService(users, courses, enrollments, deps.Payments, cfg.Stripe.RedirectURL, logger)
	instructor.RegisterRoutes(api, instructor.NewHandler(instructorService, logger), signedIn, instructorOnly)

	productService := product.NewService(product.NewStore(deps.DB), logger)
	product.RegisterRoutes(api, product.NewHandler(productService, logger), adminOnly)
}

// GlobalMiddleware returns the stack applied to every route, outermost first.
// The caller owns rateLimiter and is expected to schedule its sweep.
func GlobalMiddleware(cfg *config.Config, logger *slog.Logger, rateLimiter *pkgmiddleware.RateLimiter) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		pkgmiddleware.Recovery(logger),
		pkgmiddleware.CORS(cfg.AllowedOrigins),
		pkgmiddleware.RequestID(),
		pkgmiddleware.Compression(gzip.BestSpeed),
		pkgmiddleware.RequestLogger(logger),
		pkgmiddleware.SecurityHeaders(),
		pkgmiddleware.CacheControl(),
		pkgmiddleware.RequestSizeLimit(10 << 20),
		metrics.Middleware(),
		request.Handler(logger),
		rateLimiter.Middleware(),
	}
}
