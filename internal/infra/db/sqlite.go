package db

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Every pooled connection shares the WAL file, so writers wait on the busy
// timeout instead of failing with SQLITE_BUSY.
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

type SQLiteConfig struct {
	Path     string
	PoolSize int
	Logger   *slog.Logger
}

// SQLitePool hands out one connection per caller; a *sqlite.Conn must not
// be shared between goroutines.
type SQLitePool struct {
	pool   *sqlitex.Pool
	path   string
	logger *slog.Logger
}

func OpenSQLite(cfg SQLiteConfig) (*SQLitePool, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	size := cfg.PoolSize
	if size <= 0 {
		size = max(runtime.NumCPU(), 4)
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    size,
		PrepareConn: applySQLitePragmas,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	p := &SQLitePool{pool: pool, path: cfg.Path, logger: logger}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, err := p.Take(ctx)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}
	p.Put(conn)

	logger.Info("sqlite pool opened", "path", cfg.Path, "pool_size", size)
	return p, nil
}

func (p *SQLitePool) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := p.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take sqlite connection: %w", err)
	}
	return conn, nil
}

func (p *SQLitePool) Put(conn *sqlite.Conn) {
	p.pool.Put(conn)
}

func (p *SQLitePool) Close() error {
	if err := p.pool.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite database %s: %w", p.path, err)
	}
	p.logger.Info("sqlite pool closed", "path", p.path)
	return nil
}

func applySQLitePragmas(conn *sqlite.Conn) error {
	for _, pragma := range sqlitePragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}
