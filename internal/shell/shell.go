// Package shell reconciles a page's navigation markup into the one canonical
// site shell: brand, route links, theme toggle, badge. The pass is
// best-effort and idempotent; it creates only what is missing and removes
// only duplicates.
package shell

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Route is one top-level navigation target.
type Route struct {
	Path  string
	Label string
}

// Config describes the canonical shell.
type Config struct {
	HomePath   string
	LogoSrc    string
	BrandWords []string
	Routes     []Route
	BadgeText  string
	ToggleURL  string
}

// Default returns the TonDropHub shell.
func Default() Config {
	return Config{
		HomePath:   "/",
		LogoSrc:    "/assets/logo.svg",
		BrandWords: []string{"Ton", "Drop", "Hub"},
		Routes: []Route{
			{Path: "/news/", Label: "News"},
			{Path: "/airdrops/", Label: "Airdrops & Quests"},
			{Path: "/guides/", Label: "Guides"},
			{Path: "/projects/", Label: "Projects"},
		},
		BadgeText: "beta",
		ToggleURL: "/theme/toggle",
	}
}

// Markers and slots of the canonical structure.
const (
	containerMarker = "data-shell"
	toggleID        = "theme-toggle"
	boundAttr       = "data-toggle-bound"
	toggleURLAttr   = "data-toggle-url"
)

// Reconcile normalizes the document's navigation shell in place and marks the
// route matching currentPath active. It never fails: a step that cannot find
// its anchor point is skipped, the rest of the pass still runs.
func Reconcile(doc *goquery.Document, cfg Config, currentPath string) {
	if doc == nil {
		return
	}
	container := ensureContainer(doc)
	if container == nil || container.Length() == 0 {
		return
	}
	leading, trailing := ensureRegions(container)
	normalizeBrand(container, leading, cfg)
	ensureRouteLinks(container, leading, cfg.Routes)
	ensureToggle(container, trailing, cfg)
	ensureBadge(trailing, cfg)
	highlightActive(leading, cfg.Routes, currentPath)
}

// ensureContainer locates the shell container, adopting a legacy
// header.site-nav when the marker is missing and synthesizing an empty shell
// as the first child of the page wrapper when nothing exists at all.
func ensureContainer(doc *goquery.Document) *goquery.Selection {
	sel := doc.Find("[" + containerMarker + "]")
	if sel.Length() == 0 {
		sel = doc.Find("header.site-nav")
	}
	if sel.Length() > 1 {
		sel.Slice(1, sel.Length()).Remove()
		sel = sel.First()
	}
	if sel.Length() == 1 {
		sel.SetAttr(containerMarker, "")
		return sel
	}

	wrap := doc.Find("body > .page").First()
	if wrap.Length() == 0 {
		body := doc.Find("body").First()
		if body.Length() == 0 {
			return nil
		}
		body.PrependHtml(`<div class="page"></div>`)
		wrap = doc.Find("body > .page").First()
	}
	wrap.PrependHtml(`<header class="site-nav" ` + containerMarker + `></header>`)
	return wrap.Find("[" + containerMarker + "]").First()
}

func ensureRegions(container *goquery.Selection) (leading, trailing *goquery.Selection) {
	leading = container.Find(".nav-leading").First()
	if leading.Length() == 0 {
		container.PrependHtml(`<div class="nav-leading"></div>`)
		leading = container.Find(".nav-leading").First()
	}
	trailing = container.Find(".nav-trailing").First()
	if trailing.Length() == 0 {
		container.AppendHtml(`<div class="nav-trailing"></div>`)
		trailing = container.Find(".nav-trailing").First()
	}
	return leading, trailing
}

// normalizeBrand keeps the first home-link candidate, drops the rest (the
// double-wordmark repair), and rebuilds the survivor's internals only when
// the expected logo-plus-wordmark structure is missing.
func normalizeBrand(container, leading *goquery.Selection, cfg Config) {
	var brand *goquery.Selection
	container.Find("a").Each(func(_ int, a *goquery.Selection) {
		if !isBrandCandidate(a, cfg.HomePath) {
			return
		}
		if brand == nil {
			brand = a
			return
		}
		a.Remove()
	})

	if brand == nil {
		leading.PrependHtml(`<a class="brand" href="` + html.EscapeString(cfg.HomePath) + `">` + brandInnerHTML(cfg) + `</a>`)
		return
	}

	brand.AddClass("brand")
	brand.SetAttr("href", cfg.HomePath)
	if !hasBrandStructure(brand, len(cfg.BrandWords)) {
		brand.SetHtml(brandInnerHTML(cfg))
	}
	if brand.Closest(".nav-leading").Length() == 0 {
		leading.PrependSelection(brand)
	}
}

func isBrandCandidate(a *goquery.Selection, homePath string) bool {
	if a.HasClass("brand") {
		return true
	}
	return a.AttrOr("href", "") == homePath
}

func hasBrandStructure(brand *goquery.Selection, words int) bool {
	return brand.Find("img").Length() > 0 && brand.Find("span.brand-word").Length() == words
}

func brandInnerHTML(cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<img class="brand-logo" src="%s" alt="">`, html.EscapeString(cfg.LogoSrc))
	for _, w := range cfg.BrandWords {
		fmt.Fprintf(&b, `<span class="brand-word">%s</span>`, html.EscapeString(w))
	}
	return b.String()
}

// ensureRouteLinks upserts one link per configured route, keyed by path.
// An existing link is left untouched, though a loose one authored outside the
// leading region is adopted into it.
func ensureRouteLinks(container, leading *goquery.Selection, routes []Route) {
	for _, rt := range routes {
		existing := container.Find(fmt.Sprintf(`a[href=%q]`, rt.Path)).Not(".brand").First()
		if existing.Length() > 0 {
			existing.AddClass("nav-link")
			if existing.Closest(".nav-leading").Length() == 0 {
				leading.AppendSelection(existing)
			}
			continue
		}
		leading.AppendHtml(fmt.Sprintf(`<a class="nav-link" href=%q>%s</a>`, rt.Path, html.EscapeString(rt.Label)))
	}
}

func findRouteLink(leading *goquery.Selection, path string) *goquery.Selection {
	return leading.Find(fmt.Sprintf(`a[href=%q]`, path)).Not(".brand")
}

// ensureToggle guarantees exactly one toggle control in the trailing region,
// positioned before the badge, and stamps its activation target exactly once.
func ensureToggle(container, trailing *goquery.Selection, cfg Config) {
	toggles := container.Find("#" + toggleID)
	if toggles.Length() > 1 {
		toggles.Slice(1, toggles.Length()).Remove()
	}
	toggle := container.Find("#" + toggleID).First()
	if toggle.Length() == 0 {
		markup := `<button id="` + toggleID + `" class="theme-toggle" type="button" aria-label="Toggle theme">&#9681;</button>`
		if badge := trailing.Find(".nav-badge").First(); badge.Length() > 0 {
			badge.BeforeHtml(markup)
		} else {
			trailing.PrependHtml(markup)
		}
		toggle = container.Find("#" + toggleID).First()
	}
	if toggle.Closest(".nav-trailing").Length() == 0 {
		trailing.PrependSelection(toggle)
	}
	if _, bound := toggle.Attr(boundAttr); !bound {
		toggle.SetAttr(toggleURLAttr, cfg.ToggleURL)
		toggle.SetAttr(boundAttr, "1")
	}
}

func ensureBadge(trailing *goquery.Selection, cfg Config) {
	badges := trailing.Find(".nav-badge")
	if badges.Length() > 1 {
		badges.Slice(1, badges.Length()).Remove()
	}
	if trailing.Find(".nav-badge").Length() == 0 {
		trailing.AppendHtml(`<span class="nav-badge">` + html.EscapeString(cfg.BadgeText) + `</span>`)
	}
}

// highlightActive clears stale marks and flags the first configured route
// whose path matches the current one. The root route matches only exactly;
// every other route matches by prefix.
func highlightActive(leading *goquery.Selection, routes []Route, currentPath string) {
	if currentPath == "" {
		currentPath = "/"
	}
	links := leading.Find("a.nav-link")
	links.RemoveClass("active")
	links.RemoveAttr("aria-current")
	for _, rt := range routes {
		if !routeMatches(rt.Path, currentPath) {
			continue
		}
		if a := findRouteLink(leading, rt.Path).First(); a.Length() > 0 {
			a.AddClass("active")
			a.SetAttr("aria-current", "page")
		}
		return
	}
}

func routeMatches(routePath, currentPath string) bool {
	p := strings.TrimSuffix(routePath, "/")
	if p == "" {
		return currentPath == "/"
	}
	if currentPath == p || currentPath == p+"/" {
		return true
	}
	return strings.HasPrefix(currentPath, p+"/")
}
