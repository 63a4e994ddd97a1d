package mw

import (
	"log/slog"
	"net/http"
	"strings"
)

// LegacyQuery returns a Chi middleware that repairs URLs of the form
// /scheduleAlarm&power=1&hh=6, as built by the original front end, into
// /scheduleAlarm?power=1&hh=6. Requests that already carry a query string
// are left alone.
func LegacyQuery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery == "" {
				if path, query, ok := strings.Cut(r.URL.Path, "&"); ok {
					logger.Debug("Rewriting legacy query", "path", r.URL.Path)
					r2 := r.Clone(r.Context())
					r2.URL.Path = path
					r2.URL.RawPath = ""
					r2.URL.RawQuery = query
					r2.RequestURI = r2.URL.RequestURI()
					next.ServeHTTP(w, r2)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
