package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
)

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// DataResponse writes a success envelope of the form {"data":{<key>:payload}}.
func DataResponse(w http.ResponseWriter, statusCode int, key string, payload interface{}) error {
	return WriteJSON(w, statusCode, map[string]interface{}{
		"data": map[string]interface{}{key: payload},
	})
}

// MessageResponse writes an error envelope of the form {"message":...}.
func MessageResponse(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"message": message,
	})
}

// ValidationErrorResponse writes a 422 with the first failure as the message
// and the full field map under "errors".
func ValidationErrorResponse(w http.ResponseWriter, v *apperrors.ValidationErrors) error {
	return WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"message": v.Error(),
		"errors":  v.FieldMap(),
	})
}
