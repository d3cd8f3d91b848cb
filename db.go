package spinwin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Ashenafi-pixel/spin-to-win/config"
)

var ErrNoDatabaseURL = errors.New("DATABASE_URL is not set")

const pingTimeout = 5 * time.Second

var (
	dbOnce sync.Once
	dbConn *sql.DB
	dbErr  error
)

// GetDB opens the shared play-record pool on first use and returns it afterwards.
func GetDB(cfg *config.Config) (*sql.DB, error) {
	dbOnce.Do(func() {
		dbConn, dbErr = OpenDB(cfg)
	})
	return dbConn, dbErr
}

// OpenDB opens and pings a pgx-backed pool sized from cfg.
func OpenDB(cfg *config.Config) (*sql.DB, error) {
	connCfg, err := connConfig(cfg)
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func connConfig(cfg *config.Config) (*pgx.ConnConfig, error) {
	if cfg.DatabaseURL == "" {
		return nil, ErrNoDatabaseURL
	}
	connCfg, err := pgx.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	// Transaction poolers reject server-side prepared statements.
	if cfg.DBSimpleProtocol {
		connCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}
	return connCfg, nil
}
