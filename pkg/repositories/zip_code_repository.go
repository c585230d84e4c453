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

// ZipCodeRepository provides data access for zip codes. Read operations
// eagerly join the owning place name and county so handlers never traverse
// relationships lazily.
type ZipCodeRepository interface {
	List(ctx context.Context) ([]*models.ZipCode, error)
	GetByID(ctx context.Context, id int64) (*models.ZipCode, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CodeExists(ctx context.Context, code int) (bool, error)
	Insert(ctx context.Context, q database.Querier, code int, placeNameID int64) (int64, error)
	UpdateCode(ctx context.Context, q database.Querier, id int64, code int) error
	Delete(ctx context.Context, id int64) error
}

type zipCodeRepository struct {
	db *database.DB
}

// NewZipCodeRepository creates a new ZipCodeRepository.
func NewZipCodeRepository(db *database.DB) ZipCodeRepository {
	return &zipCodeRepository{db: db}
}

var _ ZipCodeRepository = (*zipCodeRepository)(nil)

const zipCodeSelect = `
	SELECT z.id, z.code, p.id, p.name, c.id, c.name
	FROM zip_codes z
	JOIN place_names p ON p.id = z.place_name_id
	LEFT JOIN counties c ON c.id = p.county_id`

func (r *zipCodeRepository) List(ctx context.Context) ([]*models.ZipCode, error) {
	rows, err := r.db.Query(ctx, zipCodeSelect+` ORDER BY z.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query zip codes: %w", err)
	}
	defer rows.Close()

	zips := []*models.ZipCode{}
	for rows.Next() {
		z, err := scanZipCode(rows)
		if err != nil {
			return nil, err
		}
		zips = append(zips, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zip codes: %w", err)
	}

	return zips, nil
}

func (r *zipCodeRepository) GetByID(ctx context.Context, id int64) (*models.ZipCode, error) {
	row := r.db.QueryRow(ctx, zipCodeSelect+` WHERE z.id = $1`, id)
	z, err := scanZipCode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Zip code not found
		}
		return nil, err
	}
	return z, nil
}

func (r *zipCodeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM zip_codes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check zip code: %w", err)
	}
	return exists, nil
}

func (r *zipCodeRepository) CodeExists(ctx context.Context, code int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM zip_codes WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check zip code value: %w", err)
	}
	return exists, nil
}

func (r *zipCodeRepository) Insert(ctx context.Context, q database.Querier, code int, placeNameID int64) (int64, error) {
	var id int64
	err := q.QueryRow(ctx,
		`INSERT INTO zip_codes (code, place_name_id) VALUES ($1, $2) RETURNING id`,
		code, placeNameID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create zip code: %w", err)
	}
	return id, nil
}

func (r *zipCodeRepository) UpdateCode(ctx context.Context, q database.Querier, id int64, code int) error {
	result, err := q.Exec(ctx,
		`UPDATE zip_codes SET code = $2 WHERE id = $1`, id, code)
	if err != nil {
		return fmt.Errorf("failed to update zip code: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *zipCodeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM zip_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete zip code: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanZipCode(row pgx.Row) (*models.ZipCode, error) {
	var z models.ZipCode
	var p models.PlaceName
	var countyID *int64
	var countyName *string

	err := row.Scan(&z.ID, &z.Code, &p.ID, &p.Name, &countyID, &countyName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan zip code: %w", err)
	}

	if countyID != nil {
		p.CountyID = countyID
		p.County = &models.County{ID: *countyID, Name: *countyName}
	}
	z.PlaceNameID = p.ID
	z.PlaceName = &p

	return &z, nil
}
