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

// PlaceNameRepository provides data access for place names.
type PlaceNameRepository interface {
	ListByCounty(ctx context.Context, countyID int64) ([]*models.PlaceName, error)

	// GetInCounty returns the place name only when it belongs to the given
	// county; a place name owned by a different county is treated as absent.
	GetInCounty(ctx context.Context, countyID, placeNameID int64) (*models.PlaceName, error)

	// GetOrCreate resolves a place name by its (name, county) natural key
	// inside the caller's transaction, inserting it when absent. Callers must
	// hold the county row lock (see CountyRepository.UpsertByName) so that
	// concurrent cascades cannot insert duplicates.
	GetOrCreate(ctx context.Context, q database.Querier, name string, countyID int64) (*models.PlaceName, error)

	// Update rewrites the place name row in place. Every zip code pointing at
	// this row observes the change.
	Update(ctx context.Context, q database.Querier, id int64, name string, countyID int64) error
}

type placeNameRepository struct {
	db *database.DB
}

// NewPlaceNameRepository creates a new PlaceNameRepository.
func NewPlaceNameRepository(db *database.DB) PlaceNameRepository {
	return &placeNameRepository{db: db}
}

var _ PlaceNameRepository = (*placeNameRepository)(nil)

func (r *placeNameRepository) ListByCounty(ctx context.Context, countyID int64) ([]*models.PlaceName, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, county_id FROM place_names WHERE county_id = $1 ORDER BY id`,
		countyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query place names: %w", err)
	}
	defer rows.Close()

	places := []*models.PlaceName{}
	for rows.Next() {
		var p models.PlaceName
		if err := rows.Scan(&p.ID, &p.Name, &p.CountyID); err != nil {
			return nil, fmt.Errorf("failed to scan place name: %w", err)
		}
		places = append(places, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating place names: %w", err)
	}

	return places, nil
}

func (r *placeNameRepository) GetInCounty(ctx context.Context, countyID, placeNameID int64) (*models.PlaceName, error) {
	var p models.PlaceName
	err := r.db.QueryRow(ctx,
		`SELECT id, name, county_id FROM place_names WHERE id = $1 AND county_id = $2`,
		placeNameID, countyID).Scan(&p.ID, &p.Name, &p.CountyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found, or owned by another county
		}
		return nil, fmt.Errorf("failed to get place name: %w", err)
	}
	return &p, nil
}

func (r *placeNameRepository) GetOrCreate(ctx context.Context, q database.Querier, name string, countyID int64) (*models.PlaceName, error) {
	p := models.PlaceName{Name: name, CountyID: &countyID}

	err := q.QueryRow(ctx,
		`SELECT id FROM place_names WHERE name = $1 AND county_id = $2`,
		name, countyID).Scan(&p.ID)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up place name: %w", err)
	}

	err = q.QueryRow(ctx,
		`INSERT INTO place_names (name, county_id) VALUES ($1, $2) RETURNING id`,
		name, countyID).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create place name: %w", err)
	}
	return &p, nil
}

func (r *placeNameRepository) Update(ctx context.Context, q database.Querier, id int64, name string, countyID int64) error {
	result, err := q.Exec(ctx,
		`UPDATE place_names SET name = $2, county_id = $3 WHERE id = $1`,
		id, name, countyID)
	if err != nil {
		return fmt.Errorf("failed to update place name: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
