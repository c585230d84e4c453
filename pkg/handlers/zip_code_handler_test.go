package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/auth"
	"github.com/zipatlas/zipatlas-api/pkg/models"
	"github.com/zipatlas/zipatlas-api/pkg/services"
)

type mockZipCodeService struct {
	zips      []*models.ZipCode
	zip       *models.ZipCode
	err       error
	createIn  services.CreateZipCodeInput
	updateIn  services.UpdateZipCodeInput
	deletedID int64
}

func (m *mockZipCodeService) List(ctx context.Context) ([]*models.ZipCode, error) {
	return m.zips, m.err
}
func (m *mockZipCodeService) Get(ctx context.Context, id int64) (*models.ZipCode, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.zip, nil
}
func (m *mockZipCodeService) Create(ctx context.Context, in services.CreateZipCodeInput) (*models.ZipCode, error) {
	m.createIn = in
	if m.err != nil {
		return nil, m.err
	}
	return m.zip, nil
}
func (m *mockZipCodeService) Update(ctx context.Context, id int64, in services.UpdateZipCodeInput) (*models.ZipCode, error) {
	m.updateIn = in
	if m.err != nil {
		return nil, m.err
	}
	return m.zip, nil
}
func (m *mockZipCodeService) Delete(ctx context.Context, id int64) error {
	m.deletedID = id
	return m.err
}

func newZipMux(svc *mockZipCodeService) *http.ServeMux {
	mux := http.NewServeMux()
	authMiddleware := auth.NewMiddleware(&mockAuthService{}, zap.NewNop())
	NewZipCodeHandler(svc, zap.NewNop()).RegisterRoutes(mux, authMiddleware)
	return mux
}

func abonyZip() *models.ZipCode {
	countyID := int64(1)
	return &models.ZipCode{
		ID:          5,
		Code:        2740,
		PlaceNameID: 10,
		PlaceName: &models.PlaceName{
			ID:       10,
			Name:     "Abony",
			CountyID: &countyID,
			County:   &models.County{ID: countyID, Name: "Pest"},
		},
	}
}

func TestZipCodeHandler_List(t *testing.T) {
	svc := &mockZipCodeService{zips: []*models.ZipCode{abonyZip()}}
	rec := doRequest(t, newZipMux(svc), http.MethodGet, "/zip-codes", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"zip_codes":[
		{"id":5,"code":2740,"place_name":{"id":10,"name":"Abony","county":{"id":1,"name":"Pest"}}}
	]}}`, rec.Body.String())
}

func TestZipCodeHandler_Get(t *testing.T) {
	svc := &mockZipCodeService{zip: abonyZip()}
	rec := doRequest(t, newZipMux(svc), http.MethodGet, "/zip-codes/5", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"zip_code":
		{"id":5,"code":2740,"place_name":{"id":10,"name":"Abony","county":{"id":1,"name":"Pest"}}}
	}}`, rec.Body.String())
}

func TestZipCodeHandler_Get_NotFound(t *testing.T) {
	svc := &mockZipCodeService{err: apperrors.ErrNotFound}
	rec := doRequest(t, newZipMux(svc), http.MethodGet, "/zip-codes/9999", "", false)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Zip code not found"}`, rec.Body.String())
}

func TestZipCodeHandler_Create(t *testing.T) {
	svc := &mockZipCodeService{zip: abonyZip()}
	rec := doRequest(t, newZipMux(svc), http.MethodPost, "/zip-codes",
		`{"zip_code":2740,"place_name":"Abony","county":"Pest"}`, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2740, svc.createIn.Code.Value)
	assert.Equal(t, "Abony", svc.createIn.PlaceName.Value)
	assert.Equal(t, "Pest", svc.createIn.County.Value)
}

// A numeric string for the code is passed through as a valid integer.
func TestZipCodeHandler_Create_NumericStringCode(t *testing.T) {
	svc := &mockZipCodeService{zip: abonyZip()}
	rec := doRequest(t, newZipMux(svc), http.MethodPost, "/zip-codes",
		`{"zip_code":"2740","place_name":"Abony","county":"Pest"}`, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, svc.createIn.Code.Valid)
	assert.Equal(t, 2740, svc.createIn.Code.Value)
}

func TestZipCodeHandler_Create_Unauthenticated(t *testing.T) {
	rec := doRequest(t, newZipMux(&mockZipCodeService{}), http.MethodPost, "/zip-codes",
		`{"zip_code":2740}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated."}`, rec.Body.String())
}

func TestZipCodeHandler_Create_ValidationError(t *testing.T) {
	v := apperrors.NewValidationErrors()
	v.Add("zip_code", "The zip code must not have more than 4 digits.")
	v.Add("county", "The county field is required.")
	svc := &mockZipCodeService{err: v}

	rec := doRequest(t, newZipMux(svc), http.MethodPost, "/zip-codes",
		`{"zip_code":12345,"place_name":"Abony"}`, true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{
		"message":"The zip code must not have more than 4 digits.",
		"errors":{
			"zip_code":["The zip code must not have more than 4 digits."],
			"county":["The county field is required."]
		}
	}`, rec.Body.String())
}

func TestZipCodeHandler_Update(t *testing.T) {
	svc := &mockZipCodeService{zip: abonyZip()}
	rec := doRequest(t, newZipMux(svc), http.MethodPut, "/zip-codes/5",
		`{"zip_code":2741,"place_name":"Abony","county_id":1}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2741, svc.updateIn.Code.Value)
	assert.Equal(t, 1, svc.updateIn.CountyID.Value)
}

func TestZipCodeHandler_Update_NotFound(t *testing.T) {
	svc := &mockZipCodeService{err: apperrors.ErrNotFound}
	rec := doRequest(t, newZipMux(svc), http.MethodPut, "/zip-codes/9999",
		`{"zip_code":2741}`, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Zip code not found"}`, rec.Body.String())
}

func TestZipCodeHandler_Delete(t *testing.T) {
	svc := &mockZipCodeService{}
	rec := doRequest(t, newZipMux(svc), http.MethodDelete, "/zip-codes/5", "", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, int64(5), svc.deletedID)
}
