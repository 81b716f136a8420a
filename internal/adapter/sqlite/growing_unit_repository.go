package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/neomorfeo/growspace/internal/domain"
)

// GrowingUnitRepository implements domain.GrowingUnitRepository using SQLite.
// Plants live in a child table and are rewritten with their unit in one transaction.
type GrowingUnitRepository struct {
	db *sql.DB
}

var _ domain.GrowingUnitRepository = (*GrowingUnitRepository)(nil)

const growingUnitColumns = `id, location_id, name, type, capacity, length, width, height, unit, version, created_at, updated_at`

func (r *GrowingUnitRepository) FindByID(ctx context.Context, id string) (*domain.GrowingUnit, error) {
	p, err := scanGrowingUnit(r.db.QueryRowContext(ctx,
		`SELECT `+growingUnitColumns+` FROM growing_units WHERE id = ? AND deleted_at IS NULL`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Kind: "growing unit", ID: id}
	}
	if err != nil {
		return nil, err
	}

	plants, err := r.loadPlants(ctx, `growing_unit_id = ?`, id)
	if err != nil {
		return nil, err
	}
	p.Plants = plants[id]
	return domain.GrowingUnitFromPrimitives(p)
}

// FindByLocationID returns the live growing units of a location, oldest first.
func (r *GrowingUnitRepository) FindByLocationID(ctx context.Context, locationID string) ([]*domain.GrowingUnit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+growingUnitColumns+` FROM growing_units
		 WHERE location_id = ? AND deleted_at IS NULL
		 ORDER BY created_at, id`, locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing growing units: %w", err)
	}

	// Rows are drained before the plant query; the store may run on a single connection.
	var prims []domain.GrowingUnitPrimitives
	for rows.Next() {
		p, err := scanGrowingUnit(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		prims = append(prims, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing growing units: %w", err)
	}
	rows.Close()

	plants, err := r.loadPlants(ctx,
		`growing_unit_id IN (SELECT id FROM growing_units WHERE location_id = ? AND deleted_at IS NULL)`, locationID)
	if err != nil {
		return nil, err
	}

	units := make([]*domain.GrowingUnit, 0, len(prims))
	for _, p := range prims {
		p.Plants = plants[p.ID]
		u, err := domain.GrowingUnitFromPrimitives(p)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

func (r *GrowingUnitRepository) ListIDs(ctx context.Context) ([]string, error) {
	return listIDs(ctx, r.db, `SELECT id FROM growing_units WHERE deleted_at IS NULL ORDER BY created_at, id`)
}

// Save writes the unit and its full plant list in one transaction. New units
// (version 0) are inserted; existing ones are updated only if the stored
// version still matches.
func (r *GrowingUnitRepository) Save(ctx context.Context, unit *domain.GrowingUnit) error {
	p := unit.ToPrimitives()
	dims := toDimensionColumns(p.Dimensions)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var result sql.Result
	if p.Version == 0 {
		result, err = tx.ExecContext(ctx,
			`INSERT INTO growing_units (id, location_id, name, type, capacity, length, width, height, unit, version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			p.ID, p.LocationID, p.Name, p.Type, p.Capacity,
			dims.length, dims.width, dims.height, dims.unit,
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
		)
	} else {
		result, err = tx.ExecContext(ctx,
			`UPDATE growing_units SET location_id = ?, name = ?, type = ?, capacity = ?,
			        length = ?, width = ?, height = ?, unit = ?,
			        version = version + 1, updated_at = ?
			 WHERE id = ? AND version = ? AND deleted_at IS NULL`,
			p.LocationID, p.Name, p.Type, p.Capacity,
			dims.length, dims.width, dims.height, dims.unit,
			formatTime(p.UpdatedAt), p.ID, p.Version,
		)
	}
	if err != nil {
		if isUniqueViolation(err, "growing_units.id") {
			return &domain.ConcurrencyConflictError{Kind: "growing unit", ID: p.ID, Version: p.Version}
		}
		return fmt.Errorf("saving growing unit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.ConcurrencyConflictError{Kind: "growing unit", ID: p.ID, Version: p.Version}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM plants WHERE growing_unit_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing plants: %w", err)
	}
	for i, plant := range p.Plants {
		var planted sql.NullString
		if plant.PlantedDate != nil {
			planted = sql.NullString{String: formatTime(*plant.PlantedDate), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO plants (id, growing_unit_id, position, name, species, planted_date, notes, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			plant.ID, p.ID, i, plant.Name, plant.Species, planted, plant.Notes, plant.Status,
			formatTime(plant.CreatedAt), formatTime(plant.UpdatedAt),
		)
		if err != nil {
			if isUniqueViolation(err, "plants.id") {
				return &domain.ConflictError{Kind: "plant", Field: "id", Value: plant.ID}
			}
			return fmt.Errorf("inserting plant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing growing unit: %w", err)
	}
	unit.MarkPersisted(p.Version + 1)
	return nil
}

// Delete soft-deletes a growing unit and removes its plants.
func (r *GrowingUnitRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx,
		`UPDATE growing_units SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("deleting growing unit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Kind: "growing unit", ID: id}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM plants WHERE growing_unit_id = ?`, id); err != nil {
		return fmt.Errorf("deleting plants: %w", err)
	}
	return tx.Commit()
}

// loadPlants returns plants matching where, grouped by growing unit in position order.
func (r *GrowingUnitRepository) loadPlants(ctx context.Context, where string, args ...any) (map[string][]domain.PlantPrimitives, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT growing_unit_id, id, name, species, planted_date, notes, status, created_at, updated_at
		 FROM plants WHERE `+where+` ORDER BY growing_unit_id, position`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("loading plants: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.PlantPrimitives)
	for rows.Next() {
		var (
			unitID               string
			p                    domain.PlantPrimitives
			planted              sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(&unitID, &p.ID, &p.Name, &p.Species, &planted, &p.Notes, &p.Status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning plant row: %w", err)
		}
		if planted.Valid {
			t, err := parseTime(planted.String)
			if err != nil {
				return nil, err
			}
			p.PlantedDate = &t
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out[unitID] = append(out[unitID], p)
	}
	return out, rows.Err()
}

// scanGrowingUnit scans a unit row without its plants. sql.ErrNoRows is returned unwrapped.
func scanGrowingUnit(row scanner) (domain.GrowingUnitPrimitives, error) {
	var (
		p                    domain.GrowingUnitPrimitives
		dims                 dimensionColumns
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.LocationID, &p.Name, &p.Type, &p.Capacity,
		&dims.length, &dims.width, &dims.height, &dims.unit,
		&p.Version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("scanning growing unit: %w", err)
	}

	p.Dimensions = dims.primitives()
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return p, err
	}
	return p, nil
}
