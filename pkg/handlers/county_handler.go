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

const countyNotFound = "County not found"

// CountyRequest is the payload for creating or renaming a county. Fields are
// kept raw so validation can distinguish absent, mistyped and invalid values.
type CountyRequest struct {
	Name json.RawMessage `json:"name"`
}

// CountyHandler handles county HTTP requests.
type CountyHandler struct {
	countyService services.CountyService
	logger        *zap.Logger
}

// NewCountyHandler creates a new county handler.
func NewCountyHandler(countyService services.CountyService, logger *zap.Logger) *CountyHandler {
	return &CountyHandler{
		countyService: countyService,
		logger:        logger,
	}
}

// RegisterRoutes registers the county routes on the given mux. Writes are
// gated behind bearer-token authentication.
func (h *CountyHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /counties", h.List)
	mux.HandleFunc("GET /counties/{id}", h.Get)
	mux.HandleFunc("GET /counties/{id}/place-names", h.PlaceNames)
	mux.HandleFunc("GET /counties/{id}/place-names/{placeNameId}", h.PlaceName)
	mux.HandleFunc("GET /counties/{id}/abc", h.PlaceInitials)
	mux.HandleFunc("POST /counties", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PUT /counties/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /counties/{id}", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /counties
func (h *CountyHandler) List(w http.ResponseWriter, r *http.Request) {
	counties, err := h.countyService.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusOK, "counties", counties); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /counties/{id}
func (h *CountyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.notFound(w)
		return
	}

	county, err := h.countyService.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusOK, "county", county); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// PlaceNames handles GET /counties/{id}/place-names
func (h *CountyHandler) PlaceNames(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.notFound(w)
		return
	}

	places, err := h.countyService.PlaceNames(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusOK, "place_names", places); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// PlaceName handles GET /counties/{id}/place-names/{placeNameId}
func (h *CountyHandler) PlaceName(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.notFound(w)
		return
	}

	placeNameID, ok := parseID(r, "placeNameId")
	if !ok {
		// The county must be checked first; a bogus place id inside a
		// missing county still reports the county.
		if _, err := h.countyService.Get(r.Context(), id); err != nil {
			h.writeError(w, err)
			return
		}
		h.placeNameNotFound(w)
		return
	}

	place, err := h.countyService.PlaceNameInCounty(r.Context(), id, placeNameID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusOK, "place_name", place); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// PlaceInitials handles GET /counties/{id}/abc
func (h *CountyHandler) PlaceInitials(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.notFound(w)
		return
	}

	initials, err := h.countyService.PlaceInitials(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusOK, "place_initials", initials); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /counties
func (h *CountyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CountyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := MessageResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	county, err := h.countyService.Create(r.Context(), jsonutil.StringValue(req.Name))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusCreated, "county", county); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /counties/{id}
func (h *CountyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.notFound(w)
		return
	}

	var req CountyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := MessageResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	county, err := h.countyService.Update(r.Context(), id, jsonutil.StringValue(req.Name))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := DataResponse(w, http.StatusOK, "county", county); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /counties/{id}
func (h *CountyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.notFound(w)
		return
	}

	if err := h.countyService.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CountyHandler) writeError(w http.ResponseWriter, err error) {
	var v *apperrors.ValidationErrors
	switch {
	case errors.As(err, &v):
		if err := ValidationErrorResponse(w, v); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	case errors.Is(err, apperrors.ErrPlaceNameNotFound):
		h.placeNameNotFound(w)
	case errors.Is(err, apperrors.ErrNotFound):
		h.notFound(w)
	default:
		h.logger.Error("County request failed", zap.Error(err))
		if err := MessageResponse(w, http.StatusInternalServerError, "Server Error"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}

func (h *CountyHandler) notFound(w http.ResponseWriter) {
	if err := MessageResponse(w, http.StatusNotFound, countyNotFound); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func (h *CountyHandler) placeNameNotFound(w http.ResponseWriter) {
	if err := MessageResponse(w, http.StatusNotFound, "Place name not found in this county"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
