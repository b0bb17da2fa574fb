package common

import (
	"context"
	"strings"
)

// DefaultUserID scopes requests that carry no user identity.
const DefaultUserID = "default"

// UserContext holds per-request identity injected via the X-Finbot-* headers.
type UserContext struct {
	UserID   string
	Language string
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns explicit when set, then the context UserID, then "default".
func ResolveUserID(ctx context.Context, explicit string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	if uc := UserContextFromContext(ctx); uc != nil && uc.UserID != "" {
		return uc.UserID
	}
	return DefaultUserID
}

// ResolveLanguage returns explicit when set, then the context language, then fallback.
func ResolveLanguage(ctx context.Context, explicit, fallback string) string {
	if lang := strings.ToLower(strings.TrimSpace(explicit)); lang != "" {
		return lang
	}
	if uc := UserContextFromContext(ctx); uc != nil && uc.Language != "" {
		return strings.ToLower(uc.Language)
	}
	return fallback
}
