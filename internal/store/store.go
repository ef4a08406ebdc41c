package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/sadopc/rollcall/internal/constants"
	"github.com/sadopc/rollcall/internal/logger"
)

const currentVersion = 3

// Store owns the single database handle for the process. The handle is opened
// and migrated at most once, on the first call to Initialize or to any query.
type Store struct {
	path string

	once sync.Once
	db   *sql.DB
	err  error
}

// New returns an unopened store for dbPath.
func New(dbPath string) *Store {
	return &Store{path: dbPath}
}

// Open creates the store and initializes it immediately.
func Open(dbPath string) (*Store, error) {
	s := New(dbPath)
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory creates an initialized in-memory store for testing.
func NewMemory() (*Store, error) {
	return Open(":memory:")
}

// Initialize opens the database and runs migrations. Concurrent and repeated
// callers share one handle and observe the same result.
func (s *Store) Initialize() error {
	_, err := s.conn()
	return err
}

func (s *Store) conn() (*sql.DB, error) {
	s.once.Do(func() {
		s.db, s.err = open(s.path)
	})
	return s.db, s.err
}

// Path returns the database file path the store was created with.
func (s *Store) Path() string {
	return s.path
}

// Close releases the handle. A store that was never initialized is marked
// closed without opening the database.
func (s *Store) Close() error {
	s.once.Do(func() {
		s.err = errClosed
	})
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, &InitializationError{Step: "create db directory", Err: err}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &InitializationError{Step: "open database", Err: err}
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, &InitializationError{Step: fmt.Sprintf("exec pragma %q", p), Err: err}
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("database initialized", "path", dbPath)
	return db, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return &InitializationError{Step: "read user_version", Err: err}
	}

	if version >= currentVersion {
		return nil
	}

	steps := []struct {
		version int
		run     func(*sql.DB) error
	}{
		{1, migrateV1},
		{2, migrateV2},
		{3, migrateV3},
	}
	for _, step := range steps {
		if version >= step.version {
			continue
		}
		if err := step.run(db); err != nil {
			return &InitializationError{Step: fmt.Sprintf("migrate v%d", step.version), Err: err}
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion)); err != nil {
		return &InitializationError{Step: "write user_version", Err: err}
	}
	return nil
}

// migrateV1 creates the four tables shared with existing data files.
func migrateV1(db *sql.DB) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS subjects (
		id                          INTEGER PRIMARY KEY NOT NULL,
		name                        TEXT NOT NULL,
		color                       TEXT NOT NULL,
		target_attendance           REAL DEFAULT 75.0,
		teacher_name                TEXT,
		historical_classes_held     INTEGER NOT NULL DEFAULT 0,
		historical_classes_attended INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS timetable (
		id          INTEGER PRIMARY KEY NOT NULL,
		subject_id  INTEGER NOT NULL,
		day_of_week INTEGER NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		location    TEXT,
		FOREIGN KEY (subject_id) REFERENCES subjects (id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS attendance_records (
		id           INTEGER PRIMARY KEY NOT NULL,
		timetable_id INTEGER NOT NULL,
		date         TEXT NOT NULL,
		status       TEXT NOT NULL CHECK (status IN ('present', 'absent', 'cancelled', 'holiday')),
		notes        TEXT,
		FOREIGN KEY (timetable_id) REFERENCES timetable (id) ON DELETE CASCADE,
		UNIQUE (timetable_id, date)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id           INTEGER PRIMARY KEY NOT NULL,
		subject_id   INTEGER,
		title        TEXT NOT NULL,
		description  TEXT,
		due_date     TEXT NOT NULL,
		is_completed INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (subject_id) REFERENCES subjects (id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_timetable_subject ON timetable(subject_id);
	CREATE INDEX IF NOT EXISTS idx_timetable_day     ON timetable(day_of_week, start_time);
	CREATE INDEX IF NOT EXISTS idx_attendance_date   ON attendance_records(date);
	`
	_, err := db.Exec(ddl)
	return err
}

// migrateV2 adds the tables owned by this host: reminder settings and the
// local notification queue.
func migrateV2(db *sql.DB) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('class_reminders', 'false'),
		('task_reminders',  'false');

	CREATE TABLE IF NOT EXISTS scheduled_notifications (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		title        TEXT NOT NULL,
		body         TEXT NOT NULL,
		fire_at      TEXT NOT NULL,
		delivered_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_fire_at ON scheduled_notifications(fire_at);
	`
	_, err := db.Exec(ddl)
	return err
}

// migrateV3 applies additive column migrations for data files created by
// older releases that predate these columns.
func migrateV3(db *sql.DB) error {
	columns := []struct{ table, column, decl string }{
		{"subjects", "teacher_name", "TEXT"},
		{"attendance_records", "notes", "TEXT"},
	}
	for _, c := range columns {
		if err := addColumn(db, c.table, c.column, c.decl); err != nil {
			return err
		}
	}
	return nil
}

// addColumn runs ALTER TABLE ... ADD COLUMN, treating an already existing
// column as success.
func addColumn(db *sql.DB, table, column, decl string) error {
	_, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	if err != nil && isDuplicateColumn(err) {
		return nil
	}
	return err
}

func isDuplicateColumn(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}

// DefaultDBPath returns ~/.config/rollcall/rollcall.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, constants.AppName, constants.AppName+".db"), nil
}
