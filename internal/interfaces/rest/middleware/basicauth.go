package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// BasicAuth guards an endpoint with HTTP Basic credentials. With an empty
// user and password the check is skipped entirely; that is a deliberate,
// documented degraded-security mode for setups that restrict the endpoint
// at the network layer instead.
func BasicAuth(user, password string, logger *slog.Logger) func(http.Handler) http.Handler {
	enabled := user != "" || password != ""

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			gotUser, gotPass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) != 1 ||
				subtle.ConstantTimeCompare([]byte(gotPass), []byte(password)) != 1 {
				logger.Warn("webhook authentication failed", "remote", r.RemoteAddr)
				w.Header().Set("WWW-Authenticate", `Basic realm="notifications"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
