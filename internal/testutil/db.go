// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/whistleblow/internal/database"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns an isolated in-memory SQLite database with models migrated.
// A single connection keeps every statement on the same memory database.
func NewDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", uuid.NewString())
	db, err := database.Connect(context.Background(), database.Options{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 1,
		LogLevel:     gormlogger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models...))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
