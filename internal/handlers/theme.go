package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/TonDropHub/tdh-site/internal/theme"
)

// ToggleTheme flips the cookie-persisted theme and sends the visitor back to
// the page they came from. Works without any client-side script.
func ToggleTheme(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := theme.NewStore(theme.NewCookieStorage(w, r), theme.SystemFromRequest(r))
		next := store.Resolve(nil).Other()
		store.Apply(nil, next)

		if logger != nil {
			logger.Info("theme: toggled", zap.String("theme", string(next)))
		}
		http.Redirect(w, r, refererPath(r), http.StatusSeeOther)
	}
}

// refererPath extracts a same-origin path to return to, defaulting to the
// homepage. Only the path survives; foreign origins are ignored.
func refererPath(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return u.Path
}
