package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/neomorfeo/growspace/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is the SQLite write store. It hands out the aggregate repositories
// that share its connection.
type Store struct {
	db *sql.DB
}

// New opens a SQLite database, runs migrations, and returns a ready store.
func New(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database exists per connection.
	if strings.Contains(dataSourceName, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready store.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*Store, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (s *Store) DB() *sql.DB {
	return s.db
}

// GrowingUnits returns the growing unit repository.
func (s *Store) GrowingUnits() *GrowingUnitRepository {
	return &GrowingUnitRepository{db: s.db}
}

// Locations returns the location repository.
func (s *Store) Locations() *LocationRepository {
	return &LocationRepository{db: s.db}
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// dimensionColumns is the nullable column form of optional dimensions.
type dimensionColumns struct {
	length, width, height sql.NullFloat64
	unit                  sql.NullString
}

func toDimensionColumns(d *domain.DimensionsPrimitives) dimensionColumns {
	if d == nil {
		return dimensionColumns{}
	}
	return dimensionColumns{
		length: sql.NullFloat64{Float64: d.Length, Valid: true},
		width:  sql.NullFloat64{Float64: d.Width, Valid: true},
		height: sql.NullFloat64{Float64: d.Height, Valid: true},
		unit:   sql.NullString{String: d.Unit, Valid: true},
	}
}

func (c dimensionColumns) primitives() *domain.DimensionsPrimitives {
	if !c.unit.Valid {
		return nil
	}
	return &domain.DimensionsPrimitives{
		Length: c.length.Float64,
		Width:  c.width.Float64,
		Height: c.height.Float64,
		Unit:   c.unit.String,
	}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation
// on the given table.column.
func isUniqueViolation(err error, column string) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}
