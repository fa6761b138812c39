// Package testdb opens a real Postgres for store tests. Tests are skipped unless
// TEST_DATABASE_URL points at a disposable database.
package testdb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/pkg/config"
	"github.com/mo-amir99/course-marketplace-go/pkg/database"
	"github.com/mo-amir99/course-marketplace-go/pkg/logger"
)

// EnvVar names the connection URL used by store tests.
const EnvVar = "TEST_DATABASE_URL"

// Open connects to the test database and migrates models, skipping t when EnvVar is unset.
func Open(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	raw := os.Getenv(EnvVar)
	if raw == "" {
		t.Skipf("%s not set", EnvVar)
	}

	cfg, err := config.DatabaseFromURL(raw)
	require.NoError(t, err)

	db, err := database.ConnectWithRetry(context.Background(), cfg, logger.Discard(), 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db, logger.Discard()) })

	require.NoError(t, db.AutoMigrate(models...))
	return db
}
