// tdh-patch walks a site directory and rewrites every HTML page so
// hand-authored and generated pages alike converge on the canonical shell.
// Run it before committing freshly generated content.
package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/TonDropHub/tdh-site/internal/config"
	"github.com/TonDropHub/tdh-site/internal/observability"
	"github.com/TonDropHub/tdh-site/internal/patch"
)

func main() {
	var (
		cfgPath string
		siteDir string
		dryRun  bool
	)
	flag.StringVar(&cfgPath, "config", os.Getenv("TDH_CONFIG"), "site config file (YAML)")
	flag.StringVar(&siteDir, "site", "", "site directory (overrides config)")
	flag.BoolVar(&dryRun, "dry-run", false, "report changes without writing files")
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
	if siteDir != "" {
		site.SiteDir = siteDir
	}

	p := &patch.Patcher{
		SiteDir: site.SiteDir,
		Shell:   site.ShellConfig(),
		Assets:  site.HeadAssets(),
		DryRun:  dryRun,
		Logger:  logger,
	}
	if _, err := p.Run(); err != nil {
		logger.Fatal("patch", zap.Error(err))
	}
}
