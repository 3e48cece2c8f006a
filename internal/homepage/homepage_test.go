package homepage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TonDropHub/tdh-site/internal/cards"
	"github.com/TonDropHub/tdh-site/internal/config"
	"github.com/TonDropHub/tdh-site/internal/feed"
	"github.com/TonDropHub/tdh-site/internal/homepage"
	"github.com/TonDropHub/tdh-site/internal/testutil"
	"github.com/TonDropHub/tdh-site/internal/theme"
)

const homePage = `<!DOCTYPE html><html><head></head><body><div class="page">
<section>
  <a id="guides-title" href="#">x</a><p id="guides-meta"></p><p id="guides-excerpt"></p>
</section>
<section>
  <a id="airdrops-title" href="#">x</a><p id="airdrops-meta"></p><p id="airdrops-excerpt"></p>
</section>
<section>
  <a id="news-title" href="#">x</a><p id="news-meta"></p><p id="news-excerpt"></p>
</section>
<section>
  <span id="top-story-title"></span><p id="top-story-meta"></p><p id="top-story-excerpt"></p><a id="top-story-link" href="#">more</a>
</section>
</div></body></html>`

func binding(key, label string) cards.Binding {
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

func TestRunIsolatesFeedFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/guides/feed.json":
			_, _ = w.Write([]byte(`{"items":[{"title":"Guide one","url":"/guides/1","excerpt":"how to","published_at":"2024-05-01T10:00:00Z"}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	doc := testutil.ParseHTML(t, []byte(homePage))
	boot := &homepage.Bootstrapper{
		Theme:    theme.NewStore(theme.NewMemoryStorage(), nil),
		Feeds:    feed.NewClient(srv.URL, "", nil),
		Sections: []cards.Binding{binding("guides", "Guides"), binding("airdrops", "Airdrops & Quests")},
	}
	boot.Run(context.Background(), doc, "/")

	require.Equal(t, "Guide one", doc.Find("#guides-title").Text())
	require.Equal(t, "/guides/1", doc.Find("#guides-title").AttrOr("href", ""))
	require.Equal(t, "Guides • 2024-05-01", doc.Find("#guides-meta").Text())

	require.Equal(t, "Open Airdrops & Quests", doc.Find("#airdrops-title").Text())
	require.Equal(t, "/airdrops/", doc.Find("#airdrops-title").AttrOr("href", ""))
	require.Contains(t, doc.Find("#airdrops-excerpt").Text(), "Try again later")
}

func TestRunSharesFetchAcrossBindingsOfOneFeed(t *testing.T) {
	t.Parallel()

	var newsRequests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/news/feed.json" {
			newsRequests.Add(1)
		}
		_, _ = w.Write([]byte(`{"items":[{"title":"Shared story","url":"/news/1"}]}`))
	}))
	t.Cleanup(srv.Close)

	top := binding("top-story", "News")
	top.FeedPath = "/news/feed.json"
	top.SectionURL = "/news/"
	top.Slots.Link = "top-story-link"

	doc := testutil.ParseHTML(t, []byte(homePage))
	boot := &homepage.Bootstrapper{
		Feeds:    feed.NewClient(srv.URL, "", nil),
		Sections: []cards.Binding{binding("news", "News"), top},
	}
	boot.Run(context.Background(), doc, "/")

	require.Equal(t, int64(1), newsRequests.Load(), "one fetch serves both cards")
	require.Equal(t, "Shared story", doc.Find("#news-title").Text())
	require.Equal(t, "Shared story", doc.Find("#top-story-title").Text())
	require.Equal(t, "/news/1", doc.Find("#top-story-link").AttrOr("href", ""))
}

func TestRunSharedFeedFailureBlanksBothCards(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	top := binding("top-story", "News")
	top.FeedPath = "/news/feed.json"
	top.Slots.Link = "top-story-link"

	doc := testutil.ParseHTML(t, []byte(homePage))
	boot := &homepage.Bootstrapper{
		Feeds:    feed.NewClient(srv.URL, "", nil),
		Sections: []cards.Binding{binding("news", "News"), top},
	}
	boot.Run(context.Background(), doc, "/")

	require.Equal(t, "Open News", doc.Find("#news-title").Text())
	require.Equal(t, "Open News", doc.Find("#top-story-title").Text())
}

func TestRunAppliesThemeAndShellBeforeCards(t *testing.T) {
	t.Parallel()

	storage := theme.NewMemoryStorage()
	require.NoError(t, storage.Set(theme.StorageKey, "light"))

	doc := testutil.ParseHTML(t, []byte(homePage))
	boot := &homepage.Bootstrapper{
		Theme: theme.NewStore(storage, nil),
		Shell: config.Default().ShellConfig(),
	}
	boot.Run(context.Background(), doc, "/guides/")

	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
	require.Equal(t, 1, doc.Find("[data-shell]").Length())
	require.Equal(t, 1, doc.Find(`a.nav-link.active[href="/guides/"]`).Length())
}
