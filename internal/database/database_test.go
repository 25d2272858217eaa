package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   uint
	Name string `gorm:"uniqueIndex"`
}

func TestConnectSQLiteAndMigrate(t *testing.T) {
	db, err := Connect(context.Background(), Options{
		Driver:       "sqlite",
		DSN:          "file:database_test?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db, &widget{}))
	require.NoError(t, db.Create(&widget{Name: "a"}).Error)

	err = db.Create(&widget{Name: "a"}).Error
	assert.Error(t, err)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Connect(context.Background(), Options{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
