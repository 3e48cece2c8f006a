package main

import (
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/TonDropHub/tdh-site/internal/config"
	"github.com/TonDropHub/tdh-site/internal/feed"
	"github.com/TonDropHub/tdh-site/internal/handlers"
	mw "github.com/TonDropHub/tdh-site/internal/middleware"
	"github.com/TonDropHub/tdh-site/internal/observability"
)

func main() {
	var (
		cfgPath  string
		addr     string
		siteDir  string
		feedBase string
	)
	flag.StringVar(&cfgPath, "config", os.Getenv("TDH_CONFIG"), "site config file (YAML)")
	flag.StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	flag.StringVar(&siteDir, "site", "", "site directory (overrides config)")
	flag.StringVar(&feedBase, "feed-base", "", "feed base URL; empty reads feeds from the site directory")
	flag.Parse()

	logger, err := observability.NewLogger()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	site, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if addr != "" {
		site.Addr = addr
	}
	if siteDir != "" {
		site.SiteDir = siteDir
	}
	if feedBase != "" {
		site.FeedBase = feedBase
	}

	feeds := feed.NewClient(site.FeedBase, site.SiteDir, logger)
	pages := &handlers.Pages{Site: site, Feeds: feeds, Logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets := http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(site.SiteDir, "assets"))))
	r.Handle("/assets/*", assets)

	r.Post(config.ToggleURL, handlers.ToggleTheme(logger))
	r.Handle("/*", pages)

	srv := &http.Server{
		Addr:              site.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("web listening", zap.String("addr", site.Addr), zap.String("site_dir", site.SiteDir))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}
}
