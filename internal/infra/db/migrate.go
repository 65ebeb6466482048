package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lab-booking/migrations"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schemaMigrationsPG = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT        PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const schemaMigrationsSQLite = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT    PRIMARY KEY,
	applied_at INTEGER NOT NULL DEFAULT (unixepoch())
)`

// MigratePostgres applies every embedded migration not yet recorded in
// schema_migrations, one transaction per file.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	list, err := migrations.Load(migrations.Postgres)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, schemaMigrationsPG); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	for _, m := range list {
		if err := applyPostgres(ctx, pool, m); err != nil {
			return err
		}
	}
	return nil
}

func applyPostgres(ctx context.Context, pool *pgxpool.Pool, m migrations.Migration) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.Version, err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("migration rollback failed", "version", m.Version, "error", rbErr.Error())
		}
	}()

	tag, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT DO NOTHING", m.Version)
	if err != nil {
		return fmt.Errorf("recording migration %s: %w", m.Version, err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return fmt.Errorf("executing migration %s: %w", m.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.Version, err)
	}
	slog.Info("migration applied", "dialect", migrations.Postgres, "version", m.Version)
	return nil
}

// MigrateSQLite is the SQLite counterpart of MigratePostgres.
func MigrateSQLite(ctx context.Context, pool *SQLitePool) error {
	list, err := migrations.Load(migrations.SQLite)
	if err != nil {
		return err
	}

	conn, err := pool.Take(ctx)
	if err != nil {
		return err
	}
	defer pool.Put(conn)

	if err := sqlitex.ExecuteTransient(conn, schemaMigrationsSQLite, nil); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	for _, m := range list {
		if err := applySQLite(conn, m); err != nil {
			return err
		}
	}
	return nil
}

func applySQLite(conn *sqlite.Conn, m migrations.Migration) (err error) {
	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.Version, err)
	}
	defer endTransaction(&err)

	err = sqlitex.Execute(conn, "INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)", &sqlitex.ExecOptions{
		Args: []any{m.Version},
	})
	if err != nil {
		return fmt.Errorf("recording migration %s: %w", m.Version, err)
	}
	if conn.Changes() == 0 {
		return nil
	}

	if err := sqlitex.ExecuteScript(conn, m.SQL, nil); err != nil {
		return fmt.Errorf("executing migration %s: %w", m.Version, err)
	}
	slog.Info("migration applied", "dialect", migrations.SQLite, "version", m.Version)
	return nil
}
