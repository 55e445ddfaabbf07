// Package migrations owns the postgres schema of the kv store backend.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/DIMO-Network/shared/pkg/db"
	_ "github.com/lib/pq" // postgres driver
	"github.com/pressly/goose/v3"
)

// SchemaName is the postgres schema holding every table of the service.
const SchemaName = "line_webhook_relay"

//go:embed *.sql
var baseFS embed.FS

// goose keeps its migrations in package globals.
var gooseMu sync.Mutex

// RunGoose runs a goose command such as []string{"up", "-v"} against the database.
func RunGoose(ctx context.Context, gooseArgs []string, settings db.Settings) error {
	if len(gooseArgs) == 0 {
		return errors.New("goose command not provided")
	}
	conn, err := openWithSchema(ctx, settings)
	if err != nil {
		return err
	}
	defer conn.Close() //nolint:errcheck

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(baseFS)
	goose.ResetGlobalMigrations()
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetTableName(SchemaName + ".migrations")
	if err := goose.RunContext(ctx, gooseArgs[0], conn, ".", gooseArgs[1:]...); err != nil {
		return fmt.Errorf("goose %s failed: %w", gooseArgs[0], err)
	}
	return nil
}

// openWithSchema opens a connection and makes sure the service schema exists.
func openWithSchema(ctx context.Context, settings db.Settings) (*sql.DB, error) {
	conn, err := sql.Open("postgres", settings.BuildConnectionString(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+SchemaName+";"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("could not create schema: %w", err)
	}
	return conn, nil
}
