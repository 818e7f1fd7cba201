package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"socialhub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sqliteConfig(t *testing.T, env, mode string) *config.Config {
	t.Helper()
	return &config.Config{
		Env:          env,
		StoreBackend: config.StoreSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "socialhub.db"),
		DBSchemaMode: mode,
	}
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestLoadMigrations(t *testing.T) {
	for _, dialect := range []string{"postgres", "sqlite"} {
		t.Run(dialect, func(t *testing.T) {
			migrations, err := LoadMigrations(dialect)
			require.NoError(t, err)
			require.NotEmpty(t, migrations)

			first := migrations[0]
			assert.Equal(t, 1, first.Version)
			assert.Equal(t, "init", first.Name)
			assert.Equal(t, "000001_init", first.String())
			assert.Contains(t, first.UpScript, "CREATE TABLE IF NOT EXISTS users")
			assert.Contains(t, first.DownScript, "DROP TABLE IF EXISTS users")
		})
	}

	_, err := LoadMigrations("mysql")
	assert.Error(t, err)
}

func TestLoadMigrations_Naming(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000002_second.up.sql":   {Data: []byte("SELECT 2;")},
		"m/000002_second.down.sql": {Data: []byte("SELECT -2;")},
		"m/000001_first.up.sql":    {Data: []byte("SELECT 1;")},
		"m/000001_first.down.sql":  {Data: []byte("SELECT -1;")},
		"m/nonsense.up.sql":        {Data: []byte("SELECT 0;")},
		"m/README.md":              {Data: []byte("notes")},
	}

	migrations, err := loadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "second", migrations[1].Name)

	delete(fsys, "m/000002_second.down.sql")
	_, err = loadMigrations(fsys, "m")
	assert.Error(t, err)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		env, mode       string
		runSQL, runAuto bool
		wantErr         bool
	}{
		{env: "development", mode: "", runSQL: true, runAuto: true},
		{env: "production", mode: "", runSQL: true, runAuto: false},
		{env: "production", mode: SchemaModeSQL, runSQL: true},
		{env: "test", mode: SchemaModeAuto, runAuto: true},
		{env: "production", mode: SchemaModeAuto, wantErr: true},
		{env: "test", mode: "manual", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.mode, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&config.Config{Env: tt.env, DBSchemaMode: tt.mode})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.runSQL, runSQL)
			assert.Equal(t, tt.runAuto, runAuto)
		})
	}
}

func TestConnect_ProductionAppliesSQLMigrations(t *testing.T) {
	cfg := sqliteConfig(t, "production", "")
	db, err := Connect(cfg)
	require.NoError(t, err)
	defer closeDB(t, db)

	for _, table := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(table))
	}

	status, err := GetSchemaStatus(context.Background(), db, cfg)
	require.NoError(t, err)
	assert.False(t, status.WillRunAutoMigrate)
	assert.Equal(t, []int{1}, status.AppliedVersions)
	assert.Empty(t, status.PendingMigrations)
}

func TestApplySchema_HybridIsRepeatable(t *testing.T) {
	cfg := sqliteConfig(t, "test", SchemaModeHybrid)
	db, err := Connect(cfg)
	require.NoError(t, err)
	defer closeDB(t, db)

	require.NoError(t, ApplySchema(context.Background(), db, cfg))

	applied, err := NewMigrationStore(db).GetAppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)
}

func TestGetSchemaStatus_BeforeAnyMigration(t *testing.T) {
	cfg := sqliteConfig(t, "production", SchemaModeSQL)
	db, err := ConnectWithOptions(cfg, ConnectOptions{ApplySchema: false})
	require.NoError(t, err)
	defer closeDB(t, db)

	status, err := GetSchemaStatus(context.Background(), db, cfg)
	require.NoError(t, err)
	assert.Empty(t, status.AppliedVersions)
	require.Len(t, status.PendingMigrations, 1)
	assert.False(t, db.Migrator().HasTable("users"))
}

func TestRollbackMigration(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t, "production", SchemaModeSQL)
	db, err := Connect(cfg)
	require.NoError(t, err)
	defer closeDB(t, db)

	require.NoError(t, RollbackMigration(ctx, db, 1))
	assert.False(t, db.Migrator().HasTable("users"))
	assert.False(t, db.Migrator().HasTable("comments"))

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	assert.ErrorContains(t, RollbackMigration(ctx, db, 1), "has not been applied")
	assert.ErrorContains(t, RollbackMigration(ctx, db, 99), "not found")

	require.NoError(t, RunMigrations(ctx, db))
	assert.True(t, db.Migrator().HasTable("users"))
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1, Name: "init"}}
	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1}, registered))
	assert.ErrorContains(t, validateAppliedVersions([]int{1, 7}, registered), "000007")
}
