// Package patch rewrites a site tree in place so every HTML page carries the
// canonical head assets and navigation shell.
package patch

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/TonDropHub/tdh-site/internal/shell"
)

// Patcher walks SiteDir and normalizes each page. With DryRun set it reports
// what would change without writing anything.
type Patcher struct {
	SiteDir string
	Shell   shell.Config
	Assets  shell.HeadAssets
	DryRun  bool
	Logger  *zap.Logger
}

// Summary reports one run.
type Summary struct {
	Scanned int
	Changed int
}

var skipDirs = map[string]bool{
	"assets":       true,
	".git":         true,
	"node_modules": true,
	".venv":        true,
}

// Run patches every *.html under SiteDir. A second run over the same tree
// changes nothing.
func (p *Patcher) Run() (Summary, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var sum Summary
	err := filepath.WalkDir(p.SiteDir, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}

		rel, err := filepath.Rel(p.SiteDir, fullPath)
		if err != nil {
			return err
		}
		sum.Scanned++

		changed, err := p.patchFile(fullPath, pagePath(rel))
		if err != nil {
			// A single broken page must not abort the whole pass.
			logger.Warn("patch: skipping page", zap.String("file", rel), zap.Error(err))
			return nil
		}
		if changed {
			sum.Changed++
			logger.Info("patch: updated", zap.String("file", rel))
		}
		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("patch: walk %s: %w", p.SiteDir, err)
	}
	logger.Info("patch: done", zap.Int("scanned", sum.Scanned), zap.Int("changed", sum.Changed))
	return sum, nil
}

func (p *Patcher) patchFile(fullPath, currentPath string) (bool, error) {
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return false, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return false, err
	}
	before, err := doc.Html()
	if err != nil {
		return false, err
	}

	shell.NormalizeHead(doc, p.Assets)
	shell.Reconcile(doc, p.Shell, currentPath)

	after, err := doc.Html()
	if err != nil {
		return false, err
	}
	if after == before {
		return false, nil
	}
	if p.DryRun {
		return true, nil
	}
	return true, os.WriteFile(fullPath, []byte(after), 0o644)
}

// pagePath maps a file path relative to the site dir onto the URL path the
// page is served under, which drives active-route highlighting.
func pagePath(rel string) string {
	rel = filepath.ToSlash(rel)
	if rel == "index.html" {
		return "/"
	}
	if strings.HasSuffix(rel, "/index.html") {
		return "/" + strings.TrimSuffix(rel, "index.html")
	}
	return "/" + strings.TrimSuffix(rel, ".html")
}
