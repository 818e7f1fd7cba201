package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"socialhub/internal/config"
	"socialhub/internal/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestConnect_SQLiteMigrates(t *testing.T) {
	cfg := &config.Config{
		Env:          "test",
		StoreBackend: config.StoreSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "socialhub.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	for _, table := range []any{&models.User{}, &models.Follower{}, &models.Following{}, &models.Post{}, &models.Like{}, &models.Comment{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasTable("following"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}

func TestConnect_RejectsNonRelationalBackend(t *testing.T) {
	_, err := Connect(&config.Config{StoreBackend: config.StoreBadger})
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(&config.Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "app",
		DBPassword: "secret",
		DBName:     "socialhub",
	})
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=socialhub sslmode=disable", dsn)
}

func TestOpenBadger(t *testing.T) {
	db, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	}))
	require.NoError(t, db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("k"))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			assert.Equal(t, "v", string(val))
			return nil
		})
	}))
}

func TestCustomGormLogger_LogMode(t *testing.T) {
	l := NewGormLogger(nil)
	silent := l.LogMode(logger.Silent)
	assert.Equal(t, logger.Warn, l.Config.LogLevel)

	// Silent loggers must not touch the underlying slog logger (nil here).
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, gorm.ErrRecordNotFound)
}
