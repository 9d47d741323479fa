package chimelib

import (
	"database/sql"
	"log"
	"os"

	_ "modernc.org/sqlite"
)

const alertsSchema = `
CREATE TABLE IF NOT EXISTS alerts (
    token          TEXT PRIMARY KEY,
    type           TEXT NOT NULL,
    scheduled_iso  TEXT NOT NULL,
    scheduled_unix INTEGER NOT NULL,
    state          INTEGER NOT NULL
);`

// SQLiteStorage persists alerts in a SQLite database file.
type SQLiteStorage struct {
	path string
	db   *sql.DB
	log  *log.Logger
}

// NewSQLiteStorage creates a storage backed by the database file at path.
// The file is not touched until Open or CreateDatabase is called.
func NewSQLiteStorage(path string, l *log.Logger) *SQLiteStorage {
	if l == nil {
		l = log.Default()
	}
	return &SQLiteStorage{
		path: path,
		log:  l,
	}
}

// Open attaches to an existing database file. It returns false if the file
// does not exist or does not contain the alerts table.
func (s *SQLiteStorage) Open() bool {
	if _, err := os.Stat(s.path); err != nil {
		return false
	}
	if !s.connect() {
		return false
	}
	var name string
	err := s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='alerts'`,
	).Scan(&name)
	if err != nil {
		s.log.Printf("chimelib: alerts table missing in %s: %v", s.path, err)
		return false
	}
	return true
}

// CreateDatabase creates the database file and schema.
func (s *SQLiteStorage) CreateDatabase() bool {
	if !s.connect() {
		return false
	}
	if _, err := s.db.Exec(alertsSchema); err != nil {
		s.log.Printf("chimelib: create schema: %v", err)
		return false
	}
	return true
}

func (s *SQLiteStorage) connect() bool {
	if s.db != nil {
		return true
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		s.log.Printf("chimelib: open database %s: %v", s.path, err)
		return false
	}
	if err := db.Ping(); err != nil {
		s.log.Printf("chimelib: ping database %s: %v", s.path, err)
		db.Close()
		return false
	}
	s.db = db
	return true
}

// Load reads all persisted alerts.
func (s *SQLiteStorage) Load() ([]*Alert, bool) {
	if s.db == nil {
		s.log.Printf("chimelib: load: %v", ErrStorageClosed)
		return nil, false
	}
	rows, err := s.db.Query(
		`SELECT token, type, scheduled_iso, scheduled_unix, state FROM alerts`,
	)
	if err != nil {
		s.log.Printf("chimelib: load alerts: %v", err)
		return nil, false
	}
	defer rows.Close()

	var alerts []*Alert
	for rows.Next() {
		var (
			token, typeName, iso string
			unix                 int64
			state                int
		)
		if err := rows.Scan(&token, &typeName, &iso, &unix, &state); err != nil {
			s.log.Printf("chimelib: scan alert row: %v", err)
			return nil, false
		}
		alerts = append(alerts, NewAlertFromStorage(token, typeName, iso, unix, AlertState(state)))
	}
	if err := rows.Err(); err != nil {
		s.log.Printf("chimelib: load alerts: %v", err)
		return nil, false
	}
	return alerts, true
}

// Store persists a new alert. Fails if the token is already persisted.
func (s *SQLiteStorage) Store(a *Alert) bool {
	if s.db == nil || a == nil {
		return false
	}
	_, err := s.db.Exec(
		`INSERT INTO alerts (token, type, scheduled_iso, scheduled_unix, state)
         VALUES (?, ?, ?, ?, ?)`,
		a.Token(), a.TypeName(), a.ScheduledTimeISO(), a.ScheduledTimeUnix(), int(a.State()),
	)
	if err != nil {
		s.log.Printf("chimelib: store alert %s: %v", a.Token(), err)
		return false
	}
	return true
}

// Modify updates a persisted alert. Fails if the token is absent.
func (s *SQLiteStorage) Modify(a *Alert) bool {
	if s.db == nil || a == nil {
		return false
	}
	res, err := s.db.Exec(
		`UPDATE alerts SET type = ?, scheduled_iso = ?, scheduled_unix = ?, state = ?
         WHERE token = ?`,
		a.TypeName(), a.ScheduledTimeISO(), a.ScheduledTimeUnix(), int(a.State()), a.Token(),
	)
	if err != nil {
		s.log.Printf("chimelib: modify alert %s: %v", a.Token(), err)
		return false
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.log.Printf("chimelib: modify alert %s: %v", a.Token(), err)
		return false
	}
	if n == 0 {
		s.log.Printf("chimelib: modify alert %s: %v", a.Token(), ErrAlertNotFound)
		return false
	}
	return true
}

// Erase removes a persisted alert. Erasing an absent token succeeds.
func (s *SQLiteStorage) Erase(a *Alert) bool {
	if s.db == nil || a == nil {
		return false
	}
	if _, err := s.db.Exec(`DELETE FROM alerts WHERE token = ?`, a.Token()); err != nil {
		s.log.Printf("chimelib: erase alert %s: %v", a.Token(), err)
		return false
	}
	return true
}

// BulkErase removes all given alerts in one transaction.
func (s *SQLiteStorage) BulkErase(alerts []*Alert) bool {
	if s.db == nil {
		return false
	}
	tx, err := s.db.Begin()
	if err != nil {
		s.log.Printf("chimelib: bulk erase: %v", err)
		return false
	}
	for _, a := range alerts {
		if a == nil {
			continue
		}
		if _, err := tx.Exec(`DELETE FROM alerts WHERE token = ?`, a.Token()); err != nil {
			s.log.Printf("chimelib: bulk erase %s: %v", a.Token(), err)
			tx.Rollback()
			return false
		}
	}
	if err := tx.Commit(); err != nil {
		s.log.Printf("chimelib: bulk erase commit: %v", err)
		return false
	}
	return true
}

// ClearDatabase removes every persisted alert.
func (s *SQLiteStorage) ClearDatabase() bool {
	if s.db == nil {
		return false
	}
	if _, err := s.db.Exec(`DELETE FROM alerts`); err != nil {
		s.log.Printf("chimelib: clear database: %v", err)
		return false
	}
	return true
}

// Close releases the database handle.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

var _ Storage = (*SQLiteStorage)(nil)
