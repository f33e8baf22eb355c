package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rewear/internal/config"
	"rewear/internal/middleware"

	"gorm.io/gorm"
)

// Schema modes accepted by DB_SCHEMA_MODE.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus is the report printed by `migrate status`.
type SchemaStatus struct {
	Mode               string
	Environment        string
	Dialect            string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
	// MissingTables lists marketplace tables absent from the database.
	MissingTables []string
}

// schemaPlan is the resolved DB_SCHEMA_MODE for one environment.
type schemaPlan struct {
	mode    string
	sql     bool
	auto    bool
	unsafe  bool
	envName string
}

func planSchema(cfg *config.Config) (schemaPlan, error) {
	plan := schemaPlan{
		mode:    strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)),
		envName: cfg.Env,
	}
	if plan.mode == "" {
		plan.mode = SchemaModeSQL
	}
	prodLike := config.IsProductionEnv(cfg.Env)

	switch plan.mode {
	case SchemaModeSQL:
		plan.sql = true
	case SchemaModeHybrid:
		// Listings and ratings rely on CHECK constraints and indexes that only
		// the SQL files create, so AutoMigrate only tops up dev databases.
		plan.sql = true
		plan.auto = !prodLike
	case SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateAllowDestructive {
			return plan, fmt.Errorf("DB_SCHEMA_MODE=auto is not allowed in %q unless DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.auto = true
		plan.unsafe = cfg.DBAutoMigrateAllowDestructive
	default:
		return plan, fmt.Errorf("unknown DB_SCHEMA_MODE %q (want sql, hybrid or auto)", plan.mode)
	}
	return plan, nil
}

// ApplySchema runs the listing, messaging and rating migrations for the
// configured mode, then checks that every marketplace table exists.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg)
	if err != nil {
		return err
	}

	if plan.sql {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("apply marketplace migrations: %w", err)
		}
	}

	if plan.auto {
		if plan.unsafe {
			middleware.Logger.Warn("AutoMigrate may alter marketplace tables in place",
				slog.String("env", plan.envName))
		}
		middleware.Logger.Info("Syncing marketplace tables with GORM models",
			slog.String("mode", plan.mode), slog.String("env", plan.envName))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate marketplace models: %w", err)
		}
	}

	missing, err := missingTables(db)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema incomplete after %s migration, missing tables: %s",
			plan.mode, strings.Join(missing, ", "))
	}
	return nil
}

// GetSchemaStatus reports the mode, applied and pending versions, and any
// marketplace table that does not exist yet.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               plan.mode,
		Environment:        plan.envName,
		Dialect:            Dialect(db),
		WillRunSQL:         plan.sql,
		WillRunAutoMigrate: plan.auto,
	}

	if status.MissingTables, err = missingTables(db); err != nil {
		return nil, err
	}
	if !plan.sql {
		return status, nil
	}

	registered, err := LoadMigrations(status.Dialect)
	if err != nil {
		return nil, err
	}
	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	done := make(map[int]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}
	for _, m := range registered {
		if _, ok := done[m.Version]; !ok {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}
	return status, nil
}

// missingTables returns the table names of PersistentModels that the
// database does not have, in registry order.
func missingTables(db *gorm.DB) ([]string, error) {
	var missing []string
	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		if !db.Migrator().HasTable(stmt.Schema.Table) {
			missing = append(missing, stmt.Schema.Table)
		}
	}
	return missing, nil
}
