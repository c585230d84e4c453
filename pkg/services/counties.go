package services

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/jsonutil"
	"github.com/zipatlas/zipatlas-api/pkg/models"
	"github.com/zipatlas/zipatlas-api/pkg/repositories"
)

// CountyService provides operations for counties and their place names.
// Mutations follow the existence -> validation -> write ordering, so a
// missing county always wins over an invalid payload.
type CountyService interface {
	List(ctx context.Context) ([]*models.County, error)
	Get(ctx context.Context, id int64) (*models.County, error)
	PlaceNames(ctx context.Context, countyID int64) ([]*models.PlaceName, error)
	PlaceNameInCounty(ctx context.Context, countyID, placeNameID int64) (*models.PlaceName, error)

	// PlaceInitials returns the distinct upper-cased first letters of the
	// county's place names, sorted with Hungarian collation so accented
	// letters keep their own position in the alphabet.
	PlaceInitials(ctx context.Context, countyID int64) ([]string, error)

	Create(ctx context.Context, name jsonutil.String) (*models.County, error)
	Update(ctx context.Context, id int64, name jsonutil.String) (*models.County, error)
	Delete(ctx context.Context, id int64) error
}

type countyService struct {
	countyRepo repositories.CountyRepository
	placeRepo  repositories.PlaceNameRepository
	logger     *zap.Logger
}

// NewCountyService creates a new CountyService.
func NewCountyService(
	countyRepo repositories.CountyRepository,
	placeRepo repositories.PlaceNameRepository,
	logger *zap.Logger,
) CountyService {
	return &countyService{
		countyRepo: countyRepo,
		placeRepo:  placeRepo,
		logger:     logger,
	}
}

var _ CountyService = (*countyService)(nil)

func (s *countyService) List(ctx context.Context) ([]*models.County, error) {
	return s.countyRepo.List(ctx)
}

func (s *countyService) Get(ctx context.Context, id int64) (*models.County, error) {
	county, err := s.countyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if county == nil {
		return nil, apperrors.ErrNotFound
	}
	return county, nil
}

func (s *countyService) PlaceNames(ctx context.Context, countyID int64) ([]*models.PlaceName, error) {
	if _, err := s.Get(ctx, countyID); err != nil {
		return nil, err
	}
	return s.placeRepo.ListByCounty(ctx, countyID)
}

func (s *countyService) PlaceNameInCounty(ctx context.Context, countyID, placeNameID int64) (*models.PlaceName, error) {
	if _, err := s.Get(ctx, countyID); err != nil {
		return nil, err
	}

	place, err := s.placeRepo.GetInCounty(ctx, countyID, placeNameID)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, apperrors.ErrPlaceNameNotFound
	}
	return place, nil
}

func (s *countyService) PlaceInitials(ctx context.Context, countyID int64) ([]string, error) {
	places, err := s.PlaceNames(ctx, countyID)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}
	return placeInitials(names), nil
}

// placeInitials derives the sorted, deduplicated set of upper-cased first
// letters from place names. Hungarian collation keeps "Á" distinct from "A".
func placeInitials(names []string) []string {
	seen := make(map[string]struct{})
	initials := []string{}
	for _, name := range names {
		r, size := utf8.DecodeRuneInString(name)
		if size == 0 || r == utf8.RuneError {
			continue
		}
		initial := strings.ToUpper(string(r))
		if _, ok := seen[initial]; ok {
			continue
		}
		seen[initial] = struct{}{}
		initials = append(initials, initial)
	}

	c := collate.New(language.Hungarian)
	sort.Slice(initials, func(i, j int) bool {
		return c.CompareString(initials[i], initials[j]) < 0
	})
	return initials
}

func (s *countyService) Create(ctx context.Context, name jsonutil.String) (*models.County, error) {
	if err := s.validateName(ctx, name, 0); err != nil {
		return nil, err
	}

	county, err := s.countyRepo.Create(ctx, name.Value)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created county",
		zap.Int64("county_id", county.ID),
		zap.String("name", county.Name))
	return county, nil
}

func (s *countyService) Update(ctx context.Context, id int64, name jsonutil.String) (*models.County, error) {
	county, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateName(ctx, name, county.ID); err != nil {
		return nil, err
	}

	if err := s.countyRepo.UpdateName(ctx, id, name.Value); err != nil {
		return nil, err
	}

	county.Name = name.Value
	return county, nil
}

func (s *countyService) Delete(ctx context.Context, id int64) error {
	if err := s.countyRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Deleted county", zap.Int64("county_id", id))
	return nil
}

// validateName enforces the county name rules: required, string, at most 100
// characters, unique among counties (ignoring excludeID on rename).
func (s *countyService) validateName(ctx context.Context, name jsonutil.String, excludeID int64) error {
	v := apperrors.NewValidationErrors()

	switch {
	case !name.Set || (name.Valid && name.Value == ""):
		v.Add("name", "The name field is required.")
	case !name.Valid:
		v.Add("name", "The name must be a string.")
	case utf8.RuneCountInString(name.Value) > 100:
		v.Add("name", "The name must not be greater than 100 characters.")
	default:
		taken, err := s.countyRepo.NameExists(ctx, name.Value, excludeID)
		if err != nil {
			return err
		}
		if taken {
			v.Add("name", "The name has already been taken.")
		}
	}

	return v.ErrOrNil()
}
