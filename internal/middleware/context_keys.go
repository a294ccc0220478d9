package middleware

// contextKey is a private type for context keys set by middleware. Using a
// custom type prevents collisions with other packages.
type contextKey string

const (
	loggerKey contextKey = "logger"
	userIDKey contextKey = "userID"
)

// GinUserIDKey is the gin context key under which the authenticated user ID
// is stored.
const GinUserIDKey = "authUserID"
