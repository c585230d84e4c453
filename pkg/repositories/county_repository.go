package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/database"
	"github.com/zipatlas/zipatlas-api/pkg/models"
)

// CountyRepository provides data access for counties.
type CountyRepository interface {
	List(ctx context.Context) ([]*models.County, error)
	GetByID(ctx context.Context, id int64) (*models.County, error)
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, name string) (*models.County, error)
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error

	// UpsertByName gets or creates a county by name inside the caller's
	// transaction. The write taken by ON CONFLICT DO UPDATE row-locks the
	// county until commit, which serializes concurrent resolution cascades
	// for the same county name.
	UpsertByName(ctx context.Context, q database.Querier, name string) (*models.County, error)
}

type countyRepository struct {
	db *database.DB
}

// NewCountyRepository creates a new CountyRepository.
func NewCountyRepository(db *database.DB) CountyRepository {
	return &countyRepository{db: db}
}

var _ CountyRepository = (*countyRepository)(nil)

func (r *countyRepository) List(ctx context.Context) ([]*models.County, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM counties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query counties: %w", err)
	}
	defer rows.Close()

	counties := []*models.County{}
	for rows.Next() {
		var c models.County
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan county: %w", err)
		}
		counties = append(counties, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counties: %w", err)
	}

	return counties, nil
}

func (r *countyRepository) GetByID(ctx context.Context, id int64) (*models.County, error) {
	var c models.County
	err := r.db.QueryRow(ctx, `SELECT id, name FROM counties WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // County not found
		}
		return nil, fmt.Errorf("failed to get county: %w", err)
	}
	return &c, nil
}

func (r *countyRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM counties WHERE name = $1 AND id <> $2)`,
		name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check county name: %w", err)
	}
	return exists, nil
}

func (r *countyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM counties WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check county: %w", err)
	}
	return exists, nil
}

func (r *countyRepository) Create(ctx context.Context, name string) (*models.County, error) {
	c := models.County{Name: name}
	err := r.db.QueryRow(ctx,
		`INSERT INTO counties (name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create county: %w", err)
	}
	return &c, nil
}

func (r *countyRepository) UpdateName(ctx context.Context, id int64, name string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE counties SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("failed to update county: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *countyRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM counties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete county: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *countyRepository) UpsertByName(ctx context.Context, q database.Querier, name string) (*models.County, error) {
	c := models.County{Name: name}
	err := q.QueryRow(ctx, `
		INSERT INTO counties (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert county: %w", err)
	}
	return &c, nil
}
