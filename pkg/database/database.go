package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/pkg/config"
)

// Connect establishes a GORM connection using the provided configuration with retry logic.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	return ConnectWithRetry(ctx, cfg, log, 5, 1*time.Second)
}

// ConnectWithRetry retries connectOnce with exponential backoff and up to 25% jitter.
func ConnectWithRetry(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger, maxRetries int, initialBackoff time.Duration) (*gorm.DB, error) {
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			sleepTime := Backoff(initialBackoff, attempt)

			log.Warn("retrying database connection",
				slog.Int("attempt", attempt),
				slog.Int("max_retries", maxRetries),
				slog.Duration("backoff", sleepTime),
				slog.String("error", err.Error()),
			)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
			case <-time.After(sleepTime):
			}
		}

		var db *gorm.DB
		db, err = connectOnce(ctx, cfg, log)
		if err == nil {
			if attempt > 0 {
				log.Info("database connection established after retry", slog.Int("attempts", attempt+1))
			}
			return db, nil
		}

		log.Error("database connection attempt failed",
			slog.Int("attempt", attempt+1),
			slog.Int("max_retries", maxRetries+1),
			slog.String("error", err.Error()),
		)
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", maxRetries+1, err)
}

// Backoff returns the wait before the given retry attempt (1-based).
func Backoff(initial time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	backoff := time.Duration(float64(initial) * math.Pow(2, float64(attempt-1)))
	jitter := time.Duration(float64(backoff) * 0.25 * rand.Float64())
	return backoff + jitter
}

func connectOnce(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 NewCustomLogger(log, 200*time.Millisecond),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.Use(NewReconnectPlugin(log)); err != nil {
		return nil, fmt.Errorf("register reconnect plugin: %w", err)
	}

	// gen_random_uuid() lives in pgcrypto on Postgres < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return nil, fmt.Errorf("create pgcrypto extension: %w", err)
	}

	return db, nil
}

// Close gracefully closes the underlying sql.DB connection pool.
func Close(db *gorm.DB, log *slog.Logger) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	log.Info("database connection closed")
	return nil
}
