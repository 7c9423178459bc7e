package common

import (
	"context"
	"net/http"
	"strings"
)

type adminKey struct{}

// WithAdmin marks the context as belonging to an authenticated admin.
func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminKey{}, username)
}

// IsAdmin reports whether the caller passed the admin gate.
func IsAdmin(ctx context.Context) bool {
	_, ok := AdminName(ctx)
	return ok
}

func AdminName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(adminKey{}).(string)
	return name, ok && name != ""
}

// AdminCookie holds the admin token for browser sessions.
const AdminCookie = "admin_token"

// RequestToken extracts a token from the Authorization header, the admin
// cookie or the token query parameter (used by websocket upgrades).
func RequestToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if c, err := r.Cookie(AdminCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}
