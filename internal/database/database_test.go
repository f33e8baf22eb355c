package database

import (
	"context"
	"path/filepath"
	"testing"

	"rewear/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:          "test",
		DBDriver:     config.DriverSQLite,
		DBPath:       filepath.Join(t.TempDir(), "rewear.sqlite"),
		DBSchemaMode: SchemaModeSQL,
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:rewear.sqlite?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", SQLiteDSN("rewear.sqlite"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", SQLiteDSN("file:x?mode=memory"))
}

func TestLoadMigrations(t *testing.T) {
	for _, dialect := range []string{config.DriverSQLite, config.DriverPostgres} {
		ms, err := LoadMigrations(dialect)
		require.NoError(t, err)
		require.Len(t, ms, 3, dialect)
		assert.Equal(t, "000001_init_schema", ms[0].String())
		assert.Equal(t, "000002_user_rating_aggregate", ms[1].String())
		assert.Equal(t, "000003_listing_indexes", ms[2].String())
		for _, m := range ms {
			assert.NotEmpty(t, m.UpScript)
			assert.NotEmpty(t, m.DownScript)
		}
	}
}

func TestConnect_AppliesMigrationsIdempotently(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close() })

	assert.Equal(t, config.DriverSQLite, Dialect(db))
	assert.Same(t, db, GetReadDB())
	require.NoError(t, Ping(context.Background(), db))

	ctx := context.Background()
	require.NoError(t, RunMigrations(ctx, db))

	status, err := GetSchemaStatus(ctx, db, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, status.AppliedVersions)
	assert.Empty(t, status.PendingMigrations)
	assert.True(t, status.WillRunSQL)
	assert.False(t, status.WillRunAutoMigrate)
	assert.Empty(t, status.MissingTables)

	for _, table := range []string{"users", "categories", "posts", "favorites", "messages", "notifications", "ratings"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn("users", "rating_avg"))
}

func TestRollbackLast(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close() })

	ctx := context.Background()
	reverted, err := RollbackLast(ctx, db, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, reverted)
	assert.False(t, db.Migrator().HasColumn("users", "rating_avg"))

	status, err := GetSchemaStatus(ctx, db, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, status.AppliedVersions)
	assert.Len(t, status.PendingMigrations, 2)

	require.NoError(t, RunMigrations(ctx, db))
	assert.True(t, db.Migrator().HasColumn("users", "rating_avg"))

	assert.Error(t, RollbackMigration(ctx, db, 99))
}

func TestRunMigrations_RejectsUnknownVersion(t *testing.T) {
	db, err := Connect(sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close() })

	require.NoError(t, db.Create(&MigrationLog{Version: 42, Name: "future"}).Error)
	err = RunMigrations(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000042")
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		mode        string
		destructive bool
		wantSQL     bool
		wantAuto    bool
		wantErr     bool
	}{
		{"default is sql", "development", "", false, true, false, false},
		{"hybrid outside production", "development", "hybrid", false, true, true, false},
		{"hybrid in production", "production", "hybrid", false, true, false, false},
		{"auto refused in production", "production", "auto", false, false, false, true},
		{"auto allowed when destructive", "production", "auto", true, false, true, false},
		{"unknown mode", "development", "yolo", false, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := planSchema(&config.Config{
				Env:                           tt.env,
				DBSchemaMode:                  tt.mode,
				DBAutoMigrateAllowDestructive: tt.destructive,
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, plan.sql)
			assert.Equal(t, tt.wantAuto, plan.auto)
		})
	}
}

func TestSchemaStatus_ReportsMissingTables(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close() })

	ctx := context.Background()
	require.NoError(t, db.Migrator().DropTable("favorites"))

	status, err := GetSchemaStatus(ctx, db, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"favorites"}, status.MissingTables)

	err = ApplySchema(ctx, db, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "favorites")

	cfg.DBSchemaMode = SchemaModeHybrid
	require.NoError(t, ApplySchema(ctx, db, cfg))
	assert.True(t, db.Migrator().HasTable("favorites"))
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}
