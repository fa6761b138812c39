package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handler handles health check endpoints.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	checks map[string]Pinger
}

// NewHandler creates a health handler. The database is always checked; extra dependencies are optional.
func NewHandler(db *gorm.DB, logger *slog.Logger, extra map[string]Pinger) *Handler {
	checks := make(map[string]Pinger, len(extra)+1)
	for name, p := range extra {
		if p != nil {
			checks[name] = p
		}
	}
	if db != nil {
		checks["database"] = PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}

	return &Handler{db: db, logger: logger, checks: checks}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health is a liveness probe that always returns OK.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   Version,
	})
}

// Ready reports 503 when any dependency fails its ping.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	status := "ready"
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.logger.Error("readiness check failed", slog.String("check", name), slog.String("error", err.Error()))
			results[name] = "unhealthy"
			status = "not_ready"
			continue
		}
		results[name] = "ok"
	}

	code := http.StatusOK
	if status != "ready" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   Version,
		Checks:    results,
	})
}

// Version returns build information.
func (h *Handler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    Version,
		"git_commit": GitCommit,
		"build_time": BuildTime,
	})
}

// DBStats returns database connection pool statistics.
func (h *Handler) DBStats(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not configured"})
		return
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get database instance"})
		return
	}

	stats := sqlDB.Stats()
	c.JSON(http.StatusOK, gin.H{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_idle_time_closed": stats.MaxIdleTimeClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	})
}
