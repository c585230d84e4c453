package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/auth"
	"github.com/zipatlas/zipatlas-api/pkg/jsonutil"
	"github.com/zipatlas/zipatlas-api/pkg/services"
)

const zipCodeNotFound = "Zip code not found"

// CreateZipCodeRequest is the payload for POST /zip-codes. County is a
// free-text name; missing counties and place names are created on the fly.
type CreateZipCodeRequest struct {
	ZipCode   json.RawMessage `json:"zip_code"`
	PlaceName json.RawMessage `json:"place_name"`
	County    json.RawMessage `json:"county"`
}

// UpdateZipCodeRequest is the payload for PUT /zip-codes/{id}. The county is
// referenced by id and the existing place name row is edited in place.
type UpdateZipCodeRequest struct {
	ZipCode   json.RawMessage `json:"zip_code"`
	PlaceName json.RawMessage `json:"place_name"`
	CountyID  json.RawMessage `json:"county_id"`
}

// ZipCodeHandler handles zip code HTTP requests.
type ZipCodeHandler struct {
	zipService services.ZipCodeService
	logger     *zap.Logger
}

// NewZipCodeHandler creates a new zip code handler.
func NewZipCodeHandler(zipService services.ZipCodeService, logger *zap.Logger) *ZipCodeHandler {
	return &ZipCodeHandler{
		zipService: zipService,
		logger:     logger,
	}
}

// RegisterRoutes registers the zip code routes on the given mux. Writes are
// gated behind bearer-token authentication.
func (h *ZipCodeHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /zip-codes", h.List)
	mux.HandleFunc("GET /zip-codes/{id}", h.Get)
	mux.HandleFunc("POST /zip-codes", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PUT /zip-codes/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /zip-codes/{id}", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /zip-codes
func (h *ZipCodeHandler) List(w http.ResponseWriter, r *http.Request) {
	zips, err := h.zipService.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusOK, "zip_codes", zips); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /zip-codes/{id}
func (h *ZipCodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.notFound(w)
		return
	}

	zip, err := h.zipService.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusOK, "zip_code", zip); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /zip-codes
func (h *ZipCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateZipCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := MessageResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	zip, err := h.zipService.Create(r.Context(), services.CreateZipCodeInput{
		Code:      jsonutil.IntValue(req.ZipCode),
		PlaceName: jsonutil.StringValue(req.PlaceName),
		County:    jsonutil.StringValue(req.County),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusCreated, "zip_code", zip); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /zip-codes/{id}
func (h *ZipCodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.notFound(w)
		return
	}

	var req UpdateZipCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := MessageResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	zip, err := h.zipService.Update(r.Context(), id, services.UpdateZipCodeInput{
		Code:      jsonutil.IntValue(req.ZipCode),
		PlaceName: jsonutil.StringValue(req.PlaceName),
		CountyID:  jsonutil.IntValue(req.CountyID),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusOK, "zip_code", zip); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /zip-codes/{id}
func (h *ZipCodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.notFound(w)
		return
	}

	if err := h.zipService.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ZipCodeHandler) writeError(w http.ResponseWriter, err error) {
	var v *apperrors.ValidationErrors
	switch {
	case errors.As(err, &v):
		if err := ValidationErrorResponse(w, v); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	case errors.Is(err, apperrors.ErrNotFound):
		h.notFound(w)
	default:
		h.logger.Error("Zip code request failed", zap.Error(err))
		if err := MessageResponse(w, http.StatusInternalServerError, "Server Error"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}

func (h *ZipCodeHandler) notFound(w http.ResponseWriter) {
	if err := MessageResponse(w, http.StatusNotFound, zipCodeNotFound); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
