package db

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
)

// SchemaMode controls how tables are reconciled with models at startup.
type SchemaMode string

const (
	// SchemaCreate drops and recreates every table. Existing rows are lost.
	SchemaCreate SchemaMode = "create"
	// SchemaUpdate creates missing tables and leaves existing ones alone.
	SchemaUpdate SchemaMode = "update"
	// SchemaValidate only checks that tables and mapped columns exist.
	SchemaValidate SchemaMode = "validate"
	// SchemaNone skips synchronization.
	SchemaNone SchemaMode = "none"
)

func ParseSchemaMode(s string) (SchemaMode, error) {
	switch mode := SchemaMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case SchemaCreate, SchemaUpdate, SchemaValidate, SchemaNone:
		return mode, nil
	case "":
		return SchemaUpdate, nil
	case "drop-and-create", "create-drop":
		return SchemaCreate, nil
	}
	return "", fmt.Errorf("unknown schema mode %q", s)
}

// SyncSchema reconciles the tables of models according to mode. Models are
// typed nil pointers, e.g. (*student.Table)(nil).
func SyncSchema(ctx context.Context, db *bun.DB, mode SchemaMode, models ...interface{}) error {
	switch mode {
	case SchemaNone:
		return nil
	case SchemaCreate:
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table for model: %w", err)
			}
			if _, err := db.NewCreateTable().Model(model).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for model: %w", err)
			}
		}
	case SchemaUpdate:
		return RunMigrations(ctx, db, models...)
	case SchemaValidate:
		for _, model := range models {
			probe := reflect.New(reflect.TypeOf(model).Elem()).Interface()
			if _, err := db.NewSelect().Model(probe).Where("1 = 0").Exec(ctx); err != nil {
				return fmt.Errorf("schema validation failed: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown schema mode %q", mode)
	}

	slog.Info("database schema synchronized", "mode", string(mode))
	return nil
}

func RunMigrations(ctx context.Context, db *bun.DB, models ...interface{}) error {
	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for model: %w", err)
		}
	}
	slog.Info("database migrations completed successfully")
	return nil
}
