// Package database implements the record store over MySQL.
package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"

	"lostfound-matching/pkg/config"
	errs "lostfound-matching/pkg/errors"
)

const (
	readTimeoutDefault  = 8 * time.Second
	writeTimeoutDefault = 6 * time.Second
)

type DB struct {
	conn         *sql.DB
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// New opens the store with default pool settings. The DSN must include
// parseTime=true so TIMESTAMP columns scan into time.Time.
func New(databaseURL string) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(10 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, errs.NewDB("database.New", "ping failed", err)
	}

	return &DB{
		conn:         conn,
		readTimeout:  readTimeoutDefault,
		writeTimeout: writeTimeoutDefault,
	}, nil
}

// NewWithConfig creates a database connection with custom pool settings.
func NewWithConfig(databaseURL string, cfg *config.Config) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetMaxIdleConns(cfg.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, errs.NewDB("database.NewWithConfig", "ping failed", err)
	}

	rt := cfg.DBReadTimeout
	if rt == 0 {
		rt = readTimeoutDefault
	}
	wt := cfg.DBWriteTimeout
	if wt == 0 {
		wt = writeTimeoutDefault
	}

	return &DB{conn: conn, readTimeout: rt, writeTimeout: wt}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// builder returns a statement builder using MySQL ? placeholders.
func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// withReadTimeout creates a context with the standard read timeout.
func (db *DB) withReadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.readTimeout)
}

// withWriteTimeout creates a context with the standard write timeout.
func (db *DB) withWriteTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.writeTimeout)
}
