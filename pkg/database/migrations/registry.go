package migrations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"
)

// Func applies one schema step.
type Func func(ctx context.Context, db *gorm.DB) error

type namedMigration struct {
	name string
	fn   Func
}

// Registry holds migrations in registration order.
type Registry struct {
	mu    sync.RWMutex
	steps []namedMigration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a migration.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, namedMigration{name: name, fn: fn})
}

// Names lists registered migrations in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.steps))
	for _, step := range r.steps {
		names = append(names, step.name)
	}
	return names
}

// Run executes registered migrations sequentially, stopping at the first failure.
func (r *Registry) Run(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	r.mu.RLock()
	steps := make([]namedMigration, len(r.steps))
	copy(steps, r.steps)
	r.mu.RUnlock()

	if len(steps) == 0 {
		if log != nil {
			log.Info("no database migrations registered")
		}
		return nil
	}

	for _, step := range steps {
		if log != nil {
			log.Info("running migration", slog.String("name", step.name))
		}

		if err := step.fn(ctx, db); err != nil {
			return fmt.Errorf("migration %s failed: %w", step.name, err)
		}
	}

	if log != nil {
		log.Info("database migrations applied", slog.Int("count", len(steps)))
	}
	return nil
}
