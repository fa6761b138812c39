package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/pkg/config"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// EnsureDefaultAdmin creates the configured admin account or restores its Admin role.
// Nothing happens when no admin email is configured.
func EnsureDefaultAdmin(ctx context.Context, db *gorm.DB, cfg config.AdminConfig, bcryptCost int, logger *slog.Logger) error {
	if strings.TrimSpace(cfg.Email) == "" {
		return nil
	}

	existing, err := user.GetByEmail(ctx, db, cfg.Email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		_, createErr := user.Create(ctx, db, user.CreateInput{
			Name:       cfg.Name,
			Email:      cfg.Email,
			Password:   cfg.Password,
			Roles:      types.NewRoleSet(types.RoleSubscriber, types.RoleAdmin),
			BcryptCost: bcryptCost,
		})
		if createErr != nil {
			if isUndefinedTableError(createErr) {
				logger.Warn("default admin skipped - users table missing", slog.String("email", cfg.Email))
				return nil
			}
			return fmt.Errorf("create admin: %w", createErr)
		}

		logger.Info("default admin created", slog.String("email", user.NormalizeEmail(cfg.Email)))
		return nil

	case err != nil:
		if isUndefinedTableError(err) {
			logger.Warn("default admin skipped - users table missing", slog.String("email", cfg.Email))
			return nil
		}
		return fmt.Errorf("get admin: %w", err)
	}

	if existing.Roles.Has(types.RoleAdmin) {
		logger.Info("default admin already up to date", slog.String("email", existing.Email))
		return nil
	}

	roles := types.NewRoleSet(existing.Roles.Slice()...)
	roles.Add(types.RoleAdmin)
	if err := db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", existing.ID).
		Update("roles", roles).Error; err != nil {
		return fmt.Errorf("update admin roles: %w", err)
	}

	logger.Info("default admin synchronized", slog.String("email", existing.Email))
	return nil
}

func isUndefinedTableError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), `relation "users" does not exist`)
}
