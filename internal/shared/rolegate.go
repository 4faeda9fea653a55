package shared

import (
	"log/slog"
	"net/http"
)

const (
	// LoginPath is where anonymous visitors are sent.
	LoginPath = "/auth/login"
	// HomePath is where authenticated visitors with the wrong role are
	// sent. Home, not an error page.
	HomePath = "/"
)

// RequireRole gates a route subtree on the session principal. The decision
// is synchronous over already-loaded session state: absent principal means
// a redirect to login, a principal outside the allowed set means a redirect
// home, anything else passes through.
func RequireRole(logger *slog.Logger, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			if !principal.HasRole(allowed...) {
				if logger != nil {
					logger.Warn("role gate denied",
						slog.String("role", principal.Role),
						slog.String("path", r.URL.Path))
				}
				http.Redirect(w, r, HomePath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EndSession clears the principal (token and identity together) and issues
// the single navigation-to-login the invalid-token contract requires.
// Handlers call it when a proxied request comes back ErrSessionInvalid.
func EndSession(w http.ResponseWriter, r *http.Request) {
	if sess := SessionFromContext(r.Context()); sess != nil {
		sess.ClearPrincipal()
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
