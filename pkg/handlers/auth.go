package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/jsonutil"
	"github.com/zipatlas/zipatlas-api/pkg/services"
)

// LoginRequest is the payload for POST /users/login.
type LoginRequest struct {
	Email    json.RawMessage `json:"email"`
	Password json.RawMessage `json:"password"`
}

// LoginResponse is the user with the freshly minted plaintext token. The
// token is only ever returned here.
type LoginResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// AuthHandler handles login requests.
type AuthHandler struct {
	authService services.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users/login", h.Login)
}

// Login handles POST /users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := MessageResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, token, err := h.authService.Login(r.Context(),
		jsonutil.StringValue(req.Email),
		jsonutil.StringValue(req.Password))
	if err != nil {
		var v *apperrors.ValidationErrors
		switch {
		case errors.As(err, &v):
			if err := ValidationErrorResponse(w, v); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			if err := MessageResponse(w, http.StatusUnauthorized, "Invalid credentials"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Login failed", zap.Error(err))
			if err := MessageResponse(w, http.StatusInternalServerError, "Server Error"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	response := LoginResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"data": response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
