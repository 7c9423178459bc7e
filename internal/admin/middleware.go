package admin

import (
	"net/http"

	"aheyecare/internal/common"
)

// Identify marks requests carrying a valid admin token. Requests without one
// pass through unchanged.
func Identify(svc AdminService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := common.RequestToken(r); token != "" {
				if username, err := svc.Authenticate(token); err == nil {
					r = r.WithContext(common.WithAdmin(r.Context(), username))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests that did not pass Identify.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !common.IsAdmin(r.Context()) {
			common.WriteError(w, common.Unauthorized("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
