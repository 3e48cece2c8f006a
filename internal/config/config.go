// Package config loads the site description: brand, routes, badge, sections,
// and server knobs. Values come from defaults, then an optional YAML file,
// then environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TonDropHub/tdh-site/internal/cards"
	"github.com/TonDropHub/tdh-site/internal/shell"
)

// ToggleURL is the server endpoint the theme toggle posts to.
const ToggleURL = "/theme/toggle"

// Brand describes the home link's logo and wordmark.
type Brand struct {
	HomePath string   `yaml:"home_path"`
	Logo     string   `yaml:"logo"`
	Words    []string `yaml:"words"`
}

// Route is one navigation entry, in display order.
type Route struct {
	Path  string `yaml:"path"`
	Label string `yaml:"label"`
}

// Assets names the global page resources.
type Assets struct {
	Stylesheet string `yaml:"stylesheet"`
	Script     string `yaml:"script"`
}

// Site is the full site configuration.
type Site struct {
	Addr     string          `yaml:"addr"`
	SiteDir  string          `yaml:"site_dir"`
	FeedBase string          `yaml:"feed_base"`
	Brand    Brand           `yaml:"brand"`
	Badge    string          `yaml:"badge"`
	Assets   Assets          `yaml:"assets"`
	Routes   []Route         `yaml:"routes"`
	Sections []cards.Binding `yaml:"sections"`
	TopStory *cards.Binding  `yaml:"top_story"`
}

// Default reproduces the TonDropHub site.
func Default() Site {
	return Site{
		Addr:     ":8080",
		SiteDir:  "public",
		FeedBase: "",
		Brand: Brand{
			HomePath: "/",
			Logo:     "/assets/logo.svg",
			Words:    []string{"Ton", "Drop", "Hub"},
		},
		Badge: "beta",
		Assets: Assets{
			Stylesheet: "/assets/style.css",
			Script:     "/assets/site.js",
		},
		Routes: []Route{
			{Path: "/news/", Label: "News"},
			{Path: "/airdrops/", Label: "Airdrops & Quests"},
			{Path: "/guides/", Label: "Guides"},
			{Path: "/projects/", Label: "Projects"},
		},
		Sections: []cards.Binding{
			section("news", "News"),
			section("airdrops", "Airdrops & Quests"),
			section("guides", "Guides"),
			section("projects", "Projects"),
		},
		TopStory: &cards.Binding{
			Key:        "top-story",
			Label:      "News",
			FeedPath:   "/news/feed.json",
			SectionURL: "/news/",
			Slots: cards.Slots{
				Title:   "top-story-title",
				Meta:    "top-story-meta",
				Excerpt: "top-story-excerpt",
				Link:    "top-story-link",
			},
		},
	}
}

func section(key, label string) cards.Binding {
	return cards.Binding{
		Key:        key,
		Label:      label,
		FeedPath:   "/" + key + "/feed.json",
		SectionURL: "/" + key + "/",
		Slots: cards.Slots{
			Title:   key + "-title",
			Meta:    key + "-meta",
			Excerpt: key + "-excerpt",
		},
	}
}

// Load builds the configuration from path layered over defaults, then applies
// environment overrides. An empty path skips the file; a missing file at an
// explicit path is an error.
func Load(path string) (Site, error) {
	site := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Site{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &site); err != nil {
			return Site{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	site.applyEnv()
	return site, nil
}

func (s *Site) applyEnv() {
	if v := os.Getenv("TDH_ADDR"); v != "" {
		s.Addr = v
	}
	if v := os.Getenv("TDH_SITE_DIR"); v != "" {
		s.SiteDir = v
	}
	if v := os.Getenv("TDH_FEED_BASE"); v != "" {
		s.FeedBase = v
	}
}

// ShellConfig maps the site description onto the reconciler's target schema.
func (s Site) ShellConfig() shell.Config {
	routes := make([]shell.Route, 0, len(s.Routes))
	for _, r := range s.Routes {
		routes = append(routes, shell.Route{Path: r.Path, Label: r.Label})
	}
	return shell.Config{
		HomePath:   s.Brand.HomePath,
		LogoSrc:    s.Brand.Logo,
		BrandWords: s.Brand.Words,
		Routes:     routes,
		BadgeText:  s.Badge,
		ToggleURL:  ToggleURL,
	}
}

// HeadAssets returns the resources every page head must carry.
func (s Site) HeadAssets() shell.HeadAssets {
	return shell.HeadAssets{
		StylesheetHref: s.Assets.Stylesheet,
		ScriptSrc:      s.Assets.Script,
	}
}

// Bindings returns every card binding, top story included.
func (s Site) Bindings() []cards.Binding {
	out := make([]cards.Binding, 0, len(s.Sections)+1)
	out = append(out, s.Sections...)
	if s.TopStory != nil {
		out = append(out, *s.TopStory)
	}
	return out
}
