package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

func dialect(driver string) (string, string, error) {
	switch driver {
	case "", "sqlite", "sqlite3":
		return "sqlite3", "migrations/sqlite", nil
	case "postgres", "pgx", "postgrespool":
		return "postgres", "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("unsupported driver for goose: %s", driver)
	}
}

func openDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "", "sqlite", "sqlite3":
		if dsn == "" {
			dsn = "locadora.db"
		}
		return sql.Open("sqlite", dsn)
	default:
		return sql.Open("pgx", dsn)
	}
}

func prepare(driver, dsn string) (*sql.DB, string, error) {
	d, dir, err := dialect(driver)
	if err != nil {
		return nil, "", err
	}
	goose.SetBaseFS(embedMigrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(d); err != nil {
		return nil, "", err
	}
	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("migrate: open %s: %w", driver, err)
	}
	return db, dir, nil
}

// Up applies all pending migrations.
func Up(ctx context.Context, driver, dsn string) error {
	db, dir, err := prepare(driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.UpContext(ctx, db, dir)
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, driver, dsn string) error {
	db, dir, err := prepare(driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.DownContext(ctx, db, dir)
}

// Status logs the state of every migration.
func Status(ctx context.Context, driver, dsn string) error {
	db, dir, err := prepare(driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.StatusContext(ctx, db, dir)
}

// Version returns the current schema version.
func Version(ctx context.Context, driver, dsn string) (int64, error) {
	db, _, err := prepare(driver, dsn)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return goose.GetDBVersionContext(ctx, db)
}
