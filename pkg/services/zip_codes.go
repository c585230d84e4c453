package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/database"
	"github.com/zipatlas/zipatlas-api/pkg/jsonutil"
	"github.com/zipatlas/zipatlas-api/pkg/models"
	"github.com/zipatlas/zipatlas-api/pkg/repositories"
)

// CreateZipCodeInput carries the create payload. County is a free-text
// county name; both the county and the place name are resolved get-or-create
// inside one transaction.
type CreateZipCodeInput struct {
	Code      jsonutil.Int
	PlaceName jsonutil.String
	County    jsonutil.String
}

// UpdateZipCodeInput carries the update payload. Unlike create, the county
// is referenced by id and the existing place name row is mutated in place;
// other zip codes sharing the row observe the change.
type UpdateZipCodeInput struct {
	Code      jsonutil.Int
	PlaceName jsonutil.String
	CountyID  jsonutil.Int
}

// ZipCodeService provides operations for zip codes, including the
// get-or-create resolution cascade used on create.
type ZipCodeService interface {
	List(ctx context.Context) ([]*models.ZipCode, error)
	Get(ctx context.Context, id int64) (*models.ZipCode, error)
	Create(ctx context.Context, in CreateZipCodeInput) (*models.ZipCode, error)
	Update(ctx context.Context, id int64, in UpdateZipCodeInput) (*models.ZipCode, error)
	Delete(ctx context.Context, id int64) error
}

type zipCodeService struct {
	db         *database.DB
	zipRepo    repositories.ZipCodeRepository
	placeRepo  repositories.PlaceNameRepository
	countyRepo repositories.CountyRepository
	logger     *zap.Logger
}

// NewZipCodeService creates a new ZipCodeService. The db handle is used to
// open the transactions that keep the resolution cascade atomic.
func NewZipCodeService(
	db *database.DB,
	zipRepo repositories.ZipCodeRepository,
	placeRepo repositories.PlaceNameRepository,
	countyRepo repositories.CountyRepository,
	logger *zap.Logger,
) ZipCodeService {
	return &zipCodeService{
		db:         db,
		zipRepo:    zipRepo,
		placeRepo:  placeRepo,
		countyRepo: countyRepo,
		logger:     logger,
	}
}

var _ ZipCodeService = (*zipCodeService)(nil)

func (s *zipCodeService) List(ctx context.Context) ([]*models.ZipCode, error) {
	return s.zipRepo.List(ctx)
}

func (s *zipCodeService) Get(ctx context.Context, id int64) (*models.ZipCode, error) {
	zip, err := s.zipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if zip == nil {
		return nil, apperrors.ErrNotFound
	}
	return zip, nil
}

func (s *zipCodeService) Create(ctx context.Context, in CreateZipCodeInput) (*models.ZipCode, error) {
	v := apperrors.NewValidationErrors()
	s.validateCode(v, in.Code)
	if v.Empty() && in.Code.Valid {
		taken, err := s.zipRepo.CodeExists(ctx, in.Code.Value)
		if err != nil {
			return nil, err
		}
		if taken {
			v.Add("zip_code", "The zip code has already been taken.")
		}
	}
	validateRequiredString(v, "place_name", "place name", in.PlaceName)
	validateRequiredString(v, "county", "county", in.County)
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The county upsert row-locks the county until commit, so two concurrent
	// creates for the same new county/place pair resolve to a single row.
	county, err := s.countyRepo.UpsertByName(ctx, tx, in.County.Value)
	if err != nil {
		return nil, err
	}

	place, err := s.placeRepo.GetOrCreate(ctx, tx, in.PlaceName.Value, county.ID)
	if err != nil {
		return nil, err
	}

	zipID, err := s.zipRepo.Insert(ctx, tx, in.Code.Value, place.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Created zip code",
		zap.Int64("zip_code_id", zipID),
		zap.Int("code", in.Code.Value),
		zap.String("place_name", place.Name),
		zap.String("county", county.Name))

	return s.Get(ctx, zipID)
}

func (s *zipCodeService) Update(ctx context.Context, id int64, in UpdateZipCodeInput) (*models.ZipCode, error) {
	zip, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	v := apperrors.NewValidationErrors()
	// Deliberately no uniqueness re-check on update; the code may collide
	// with another row.
	s.validateCode(v, in.Code)
	validateRequiredString(v, "place_name", "place name", in.PlaceName)
	switch {
	case !in.CountyID.Set:
		v.Add("county_id", "The county id field is required.")
	case !in.CountyID.Valid:
		v.Add("county_id", "The county id must be an integer.")
	default:
		exists, err := s.countyRepo.Exists(ctx, int64(in.CountyID.Value))
		if err != nil {
			return nil, err
		}
		if !exists {
			v.Add("county_id", "The selected county id is invalid.")
		}
	}
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.placeRepo.Update(ctx, tx, zip.PlaceNameID, in.PlaceName.Value, int64(in.CountyID.Value)); err != nil {
		return nil, err
	}
	if err := s.zipRepo.UpdateCode(ctx, tx, id, in.Code.Value); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *zipCodeService) Delete(ctx context.Context, id int64) error {
	// Deleting a zip code never cascades upward; its place name and county
	// stay even when nothing references them anymore.
	if err := s.zipRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Deleted zip code", zap.Int64("zip_code_id", id))
	return nil
}

// validateCode enforces the 4-digit rule: required, integer, 0-9999.
func (s *zipCodeService) validateCode(v *apperrors.ValidationErrors, code jsonutil.Int) {
	switch {
	case !code.Set:
		v.Add("zip_code", "The zip code field is required.")
	case !code.Valid:
		v.Add("zip_code", "The zip code must be an integer.")
	case code.Value < 0 || code.Value > 9999:
		v.Add("zip_code", "The zip code must not have more than 4 digits.")
	}
}

func validateRequiredString(v *apperrors.ValidationErrors, field, label string, value jsonutil.String) {
	switch {
	case !value.Set || (value.Valid && value.Value == ""):
		v.Add(field, fmt.Sprintf("The %s field is required.", label))
	case !value.Valid:
		v.Add(field, fmt.Sprintf("The %s must be a string.", label))
	case utf8.RuneCountInString(value.Value) > 100:
		v.Add(field, fmt.Sprintf("The %s must not be greater than 100 characters.", label))
	}
}
