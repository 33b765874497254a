package settings

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kerberos-io/translator/src/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the record as name/value rows per location, the way the
// camera software's registry key holds them.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the database and runs the migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases alive between calls.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:   db,
		path: dbPath,
	}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) runMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			location TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (location, name)
		)`,
	}
	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// Put writes url, username and password in one transaction.
func (s *SQLiteStore) Put(ctx context.Context, settings models.Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	values := [][2]string{
		{"url", settings.URL},
		{"username", settings.Username},
		{"password", settings.Password},
	}
	for _, value := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (location, name, value, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(location, name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			settings.Location, value[0], value[1])
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", value[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, location string) (models.Settings, error) {
	record := models.Settings{Location: location}
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM settings WHERE location = ?`, location)
	if err != nil {
		return record, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return record, fmt.Errorf("failed to scan settings: %w", err)
		}
		found = true
		switch name {
		case "url":
			record.URL = value
		case "username":
			record.Username = value
		case "password":
			record.Password = value
		}
	}
	if err := rows.Err(); err != nil {
		return record, err
	}
	if !found {
		return record, ErrNotFound
	}
	return record, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
