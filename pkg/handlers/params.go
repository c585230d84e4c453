package handlers

import (
	"net/http"
	"strconv"
)

// parseID extracts a numeric id from the request path. A non-numeric value
// behaves like a missing row: callers respond with their entity's 404.
func parseID(r *http.Request, pathParam string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(pathParam), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
