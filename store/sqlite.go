package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS meditated_days (
	day TEXT PRIMARY KEY
)`

// SQLite keeps the meditated days in a single-column table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err = db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load returns the stored days in ascending order.
func (s *SQLite) Load() ([]string, error) {
	rows, err := s.db.Query(`SELECT day FROM meditated_days ORDER BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string

	for rows.Next() {
		var d string
		if err = rows.Scan(&d); err != nil {
			return nil, err
		}

		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// Save replaces the stored days within a single transaction.
func (s *SQLite) Save(dates []string) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.Exec(`DELETE FROM meditated_days`); err != nil {
		return err
	}

	for _, d := range dates {
		if _, err = tx.Exec(`INSERT OR IGNORE INTO meditated_days (day) VALUES (?)`, d); err != nil {
			return err
		}
	}

	return tx.Commit()
}
