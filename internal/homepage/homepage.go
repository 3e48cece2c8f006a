// Package homepage sequences page-load work: theme before paint, shell
// reconciliation, then feed-driven preview cards.
package homepage

import (
	"context"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/TonDropHub/tdh-site/internal/cards"
	"github.com/TonDropHub/tdh-site/internal/feed"
	"github.com/TonDropHub/tdh-site/internal/shell"
	"github.com/TonDropHub/tdh-site/internal/theme"
)

// Bootstrapper drives one page load. Sections sharing a feed path share one
// fetch; a fetch failure only blanks the cards bound to that feed.
type Bootstrapper struct {
	Theme    *theme.Store
	Shell    shell.Config
	Feeds    *feed.Client
	Sections []cards.Binding
	Logger   *zap.Logger
}

type fetchResult struct {
	doc feed.Document
	err error
}

// Run applies the resolved theme, reconciles the shell, and renders every
// section card. Reconciliation completes before any feed work starts; feeds
// are fetched concurrently and rendered after all fetches settle, since the
// sections share one document.
func (b *Bootstrapper) Run(ctx context.Context, doc *goquery.Document, currentPath string) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if b.Theme != nil {
		b.Theme.Apply(doc, b.Theme.Resolve(doc))
	}
	shell.Reconcile(doc, b.Shell, currentPath)

	if b.Feeds == nil || len(b.Sections) == 0 {
		return
	}

	// Scatter: one fetch per distinct feed path.
	paths := make([]string, 0, len(b.Sections))
	seen := map[string]bool{}
	for _, s := range b.Sections {
		if s.FeedPath == "" || seen[s.FeedPath] {
			continue
		}
		seen[s.FeedPath] = true
		paths = append(paths, s.FeedPath)
	}

	results := make(map[string]fetchResult, len(paths))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			d, err := b.Feeds.Fetch(ctx, path)
			mu.Lock()
			results[path] = fetchResult{doc: d, err: err}
			mu.Unlock()
		}(path)
	}
	wg.Wait()

	// Gather: every card renders something, failures included.
	for _, s := range b.Sections {
		res, ok := results[s.FeedPath]
		if !ok || res.err != nil {
			if res.err != nil {
				logger.Warn("homepage: feed unavailable",
					zap.String("section", s.Key),
					zap.String("feed", s.FeedPath),
					zap.Error(res.err))
			}
			cards.RenderError(doc, s)
			continue
		}
		cards.Render(doc, s, res.doc.First())
	}
}
