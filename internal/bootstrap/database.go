package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/internal/features/completion"
	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/features/enrollment"
	"github.com/mo-amir99/course-marketplace-go/internal/features/product"
	"github.com/mo-amir99/course-marketplace-go/internal/features/review"
	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/pkg/config"
	"github.com/mo-amir99/course-marketplace-go/pkg/database/migrations"
)

// Models lists every table in dependency order. Users come first because courses reference them.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&course.Course{},
		&course.Lesson{},
		&enrollment.Enrollment{},
		&enrollment.PaymentIntent{},
		&completion.Completion{},
		&review.Review{},
		&product.Product{},
		&product.ProductReview{},
	}
}

// Migrations returns the schema steps applied at startup and by the migrate script.
func Migrations() *migrations.Registry {
	reg := migrations.NewRegistry()
	reg.Register("enable pgcrypto", func(ctx context.Context, db *gorm.DB) error {
		return db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
	})
	for _, model := range Models() {
		model := model
		reg.Register(fmt.Sprintf("auto migrate %T", model), func(ctx context.Context, db *gorm.DB) error {
			return db.WithContext(ctx).AutoMigrate(model)
		})
	}
	return reg
}

// ApplyDatabaseMigrations runs database migrations when enabled via configuration.
func ApplyDatabaseMigrations(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Database.RunMigrations {
		logger.Info("database migrations skipped", slog.String("env_var", "DB_RUN_MIGRATIONS=false"))
		return nil
	}

	if err := Migrations().Run(ctx, db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
