package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/neomorfeo/growspace/internal/domain"
)

// LocationRepository implements domain.LocationRepository using SQLite.
type LocationRepository struct {
	db *sql.DB
}

var _ domain.LocationRepository = (*LocationRepository)(nil)

const locationColumns = `id, name, type, length, width, height, unit, version, created_at, updated_at`

func (r *LocationRepository) FindByID(ctx context.Context, id string) (*domain.Location, error) {
	return r.scanLocation(r.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE id = ? AND deleted_at IS NULL`, id,
	), id)
}

func (r *LocationRepository) FindByName(ctx context.Context, name string) (*domain.Location, error) {
	return r.scanLocation(r.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE name = ? AND deleted_at IS NULL`, name,
	), name)
}

func (r *LocationRepository) ListIDs(ctx context.Context) ([]string, error) {
	return listIDs(ctx, r.db, `SELECT id FROM locations WHERE deleted_at IS NULL ORDER BY created_at, id`)
}

// Save inserts a new location (version 0) or updates an existing one when
// the stored version still matches.
func (r *LocationRepository) Save(ctx context.Context, loc *domain.Location) error {
	p := loc.ToPrimitives()
	dims := toDimensionColumns(p.Dimensions)

	var (
		result sql.Result
		err    error
	)
	if p.Version == 0 {
		result, err = r.db.ExecContext(ctx,
			`INSERT INTO locations (id, name, type, length, width, height, unit, version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			p.ID, p.Name, p.Type, dims.length, dims.width, dims.height, dims.unit,
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
		)
	} else {
		result, err = r.db.ExecContext(ctx,
			`UPDATE locations SET name = ?, type = ?, length = ?, width = ?, height = ?, unit = ?,
			        version = version + 1, updated_at = ?
			 WHERE id = ? AND version = ? AND deleted_at IS NULL`,
			p.Name, p.Type, dims.length, dims.width, dims.height, dims.unit,
			formatTime(p.UpdatedAt), p.ID, p.Version,
		)
	}
	if err != nil {
		if isUniqueViolation(err, "locations.name") {
			return &domain.ConflictError{Kind: "location", Field: "name", Value: p.Name}
		}
		if isUniqueViolation(err, "locations.id") {
			return &domain.ConcurrencyConflictError{Kind: "location", ID: p.ID, Version: p.Version}
		}
		return fmt.Errorf("saving location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.ConcurrencyConflictError{Kind: "location", ID: p.ID, Version: p.Version}
	}

	loc.MarkPersisted(p.Version + 1)
	return nil
}

// Delete soft-deletes a location so the name becomes available again.
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE locations SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Kind: "location", ID: id}
	}
	return nil
}

func (r *LocationRepository) scanLocation(row scanner, key string) (*domain.Location, error) {
	var (
		p                    domain.LocationPrimitives
		dims                 dimensionColumns
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Type, &dims.length, &dims.width, &dims.height, &dims.unit,
		&p.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "location", ID: key}
		}
		return nil, fmt.Errorf("scanning location: %w", err)
	}

	p.Dimensions = dims.primitives()
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return domain.LocationFromPrimitives(p)
}

func listIDs(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
