package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewConnection opens a Postgres handle through lib/pq ("postgres") or a pgx pool ("pgx").
// closePool must be called after the returned DB is closed; it is nil for lib/pq.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (db *sqlx.DB, closePool func(), err error) {
	if cfg.Driver == config.DriverPgx {
		return openPool(ctx, cfg)
	}

	db, err = sqlx.Open(config.DriverPostgres, DSN(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil, nil
}

func openPool(ctx context.Context, cfg *config.DatabaseConfig) (*sqlx.DB, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("parse dsn: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(min(cfg.MaxIdleConns, int(poolCfg.MaxConns)))
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}

	return sqlx.NewDb(stdlib.OpenDBFromPool(pool), config.DriverPgx), pool.Close, nil
}
