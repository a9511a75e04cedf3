package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config selects and tunes the database connection.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	// SlowQuery logs statements slower than this at warn level. Zero disables it.
	SlowQuery time.Duration
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*bun.DB, error) {
	var (
		db  *bun.DB
		err error
	)

	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "sqlite3", "":
		db, err = openSQLite(cfg.DSN)
	case DriverPostgres, "pg":
		db, err = openPostgres(cfg.DSN)
	case DriverMySQL:
		db, err = openMySQL(cfg.DSN)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 && !isMemoryDSN(cfg.DSN) {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if logger != nil {
		db.AddQueryHook(&queryLogger{logger: logger, slow: cfg.SlowQuery})
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

func openSQLite(dsn string) (*bun.DB, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=1"
	}

	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if isMemoryDSN(dsn) {
		// every connection to :memory: is a separate database
		sqldb.SetMaxOpenConns(1)
		sqldb.SetMaxIdleConns(1)
		sqldb.SetConnMaxLifetime(0)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func openPostgres(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func openMySQL(dsn string) (*bun.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	// report matched rows so an update that changes nothing is not taken as not found
	cfg.ClientFoundRows = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("store: mysql connector: %w", err)
	}
	return bun.NewDB(sql.OpenDB(connector), mysqldialect.New()), nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// queryLogger reports failed and slow statements.
type queryLogger struct {
	logger *slog.Logger
	slow   time.Duration
}

func (h *queryLogger) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogger) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)

	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows):
		h.logger.WarnContext(ctx, "query failed",
			"operation", event.Operation(),
			"duration", elapsed,
			"error", event.Err,
		)
	case h.slow > 0 && elapsed > h.slow:
		h.logger.WarnContext(ctx, "slow query",
			"operation", event.Operation(),
			"duration", elapsed,
			"query", event.Query,
		)
	}
}
