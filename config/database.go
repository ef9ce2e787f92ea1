package config

import (
	"database/sql"
	"fmt"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"os"
	"path/filepath"
	"strings"
	"video-archive-bot/constant"
)

// OpenDB opens the configured database. For SQLite the parent directory is
// created and writers are serialised through a single connection.
func OpenDB(cfg Database) (*sql.DB, error) {
	if cfg.Driver == constant.DatabaseDriverPostgres {
		return sql.Open(cfg.Driver.String(), cfg.DSN)
	}

	if dir := filepath.Dir(cfg.DSN); dir != "." && !strings.HasPrefix(cfg.DSN, "file:") {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open(cfg.Driver.String(), sqliteDSN(cfg.DSN))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}
