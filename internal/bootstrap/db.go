package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/config"
	"github.com/GoSim-25-26J-441/todo-service/internal/storage/postgres"
	"github.com/GoSim-25-26J-441/todo-service/internal/storage/sqlite"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/repository"
	"github.com/jmoiron/sqlx"
)

// Database is the opened store. Close releases the pgx pool too when one backs it.
type Database struct {
	*sqlx.DB
	closePool func()
}

func (d *Database) Close() error {
	err := d.DB.Close()
	if d.closePool != nil {
		d.closePool()
	}
	return err
}

type DBOptions struct {
	Config    config.DatabaseConfig
	ConnectTO time.Duration
	SchemaTO  time.Duration
}

// OpenDB opens the configured store, pings it and makes sure the todo schema exists.
func OpenDB(ctx context.Context, opt DBOptions) (*Database, error) {
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.SchemaTO == 0 {
		opt.SchemaTO = 10 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	var (
		db        *sqlx.DB
		closePool func()
		err       error
	)
	switch opt.Config.Driver {
	case config.DriverPostgres, config.DriverPgx:
		db, closePool, err = postgres.NewConnection(cctx, &opt.Config)
	case config.DriverSQLite:
		db, err = sqlite.NewConnection(cctx, opt.Config.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", opt.Config.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	sctx, scancel := context.WithTimeout(ctx, opt.SchemaTO)
	defer scancel()

	out := &Database{DB: db, closePool: closePool}
	if err := repository.NewTodoRepository(db).EnsureSchema(sctx); err != nil {
		out.Close()
		return nil, err
	}

	return out, nil
}
