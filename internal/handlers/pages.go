// Package handlers serves the site tree, reconciling every HTML page on the
// way out.
package handlers

import (
	"bytes"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/TonDropHub/tdh-site/internal/config"
	"github.com/TonDropHub/tdh-site/internal/feed"
	"github.com/TonDropHub/tdh-site/internal/homepage"
	"github.com/TonDropHub/tdh-site/internal/shell"
	"github.com/TonDropHub/tdh-site/internal/theme"
)

// Pages serves HTML pages from the site directory, normalizing each one's
// shell and theme per request. The homepage additionally gets its preview
// cards rendered from live feed data.
type Pages struct {
	Site   config.Site
	Feeds  *feed.Client
	Logger *zap.Logger
}

func (h *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, ok := h.resolve(r.URL.Path)
	if !ok {
		h.notFound(w, r)
		return
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		h.notFound(w, r)
		return
	}
	h.servePage(w, r, raw, r.URL.Path, http.StatusOK)
}

// servePage parses, reconciles, and writes one page. A page that fails to
// parse is served untouched rather than dropped.
func (h *Pages) servePage(w http.ResponseWriter, r *http.Request, raw []byte, currentPath string, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("pages: parse", zap.String("path", currentPath), zap.Error(err))
		}
		w.WriteHeader(status)
		_, _ = w.Write(raw)
		return
	}

	store := theme.NewStore(theme.NewCookieStorage(w, r), theme.SystemFromRequest(r))
	boot := &homepage.Bootstrapper{
		Theme:  store,
		Shell:  h.Site.ShellConfig(),
		Logger: h.Logger,
	}
	if currentPath == "/" {
		boot.Feeds = h.Feeds
		boot.Sections = h.Site.Bindings()
	}
	boot.Run(r.Context(), doc, currentPath)
	shell.NormalizeHead(doc, h.Site.HeadAssets())

	out, err := doc.Html()
	if err != nil {
		w.WriteHeader(status)
		_, _ = w.Write(raw)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(out))
}

// resolve maps a request path onto a file in the site dir: "/x/" means
// x/index.html, "/x" tries x.html then x/index.html. Paths escaping the site
// dir are rejected.
func (h *Pages) resolve(reqPath string) (string, bool) {
	clean := path.Clean("/" + reqPath)
	if strings.Contains(clean, "..") {
		return "", false
	}
	rel := strings.TrimPrefix(clean, "/")

	var candidates []string
	switch {
	case rel == "":
		candidates = []string{"index.html"}
	case strings.HasSuffix(reqPath, "/"):
		candidates = []string{path.Join(rel, "index.html")}
	case strings.HasSuffix(rel, ".html"):
		candidates = []string{rel}
	default:
		candidates = []string{rel + ".html", path.Join(rel, "index.html")}
	}
	for _, c := range candidates {
		full := filepath.Join(h.Site.SiteDir, filepath.FromSlash(c))
		if st, err := os.Stat(full); err == nil && st.Mode().IsRegular() {
			return full, true
		}
	}
	return "", false
}

func (h *Pages) notFound(w http.ResponseWriter, r *http.Request) {
	raw, err := os.ReadFile(filepath.Join(h.Site.SiteDir, "404.html"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.servePage(w, r, raw, r.URL.Path, http.StatusNotFound)
}
