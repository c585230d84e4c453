package auth

import "context"

type contextKey string

// UserIDKey is the context key under which the authenticated user's id is
// stored by the middleware.
const UserIDKey contextKey = "auth_user_id"

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
