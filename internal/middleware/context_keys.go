// Context keys and getters for the authenticated user.
package middleware

import "context"

type contextKey string

const (
	ContextKeyUserID contextKey = "user_id" // set by AuthMiddleware
	ContextKeyRole   contextKey = "role"    // set by AuthMiddleware
)

// UserIDFrom returns the authenticated user id from the context (after
// AuthMiddleware); 0 when unauthenticated.
func UserIDFrom(ctx context.Context) int64 {
	if v, ok := ctx.Value(ContextKeyUserID).(int64); ok {
		return v
	}
	return 0
}

// RoleFrom returns the authenticated role (user/admin) from the context.
func RoleFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRole).(string); ok {
		return v
	}
	return ""
}
