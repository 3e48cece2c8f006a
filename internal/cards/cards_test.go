package cards_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TonDropHub/tdh-site/internal/cards"
	"github.com/TonDropHub/tdh-site/internal/feed"
	"github.com/TonDropHub/tdh-site/internal/testutil"
)

const cardPage = `<!DOCTYPE html><html><body>
<section>
  <a id="guides-title" href="#">placeholder</a>
  <p id="guides-meta"></p>
  <p id="guides-excerpt"></p>
</section>
<section>
  <a id="airdrops-title" href="#">placeholder</a>
  <p id="airdrops-meta"></p>
  <p id="airdrops-excerpt"></p>
</section>
<section>
  <span id="top-story-title"></span>
  <p id="top-story-meta"></p>
  <p id="top-story-excerpt"></p>
  <a id="top-story-link" href="#">Read more</a>
</section>
</body></html>`

func guidesBinding() cards.Binding {
	return cards.Binding{
		Key:        "guides",
		Label:      "Guides",
		FeedPath:   "/guides/feed.json",
		SectionURL: "/guides/",
		Slots: cards.Slots{
			Title:   "guides-title",
			Meta:    "guides-meta",
			Excerpt: "guides-excerpt",
		},
	}
}

func airdropsBinding() cards.Binding {
	return cards.Binding{
		Key:        "airdrops",
		Label:      "Airdrops & Quests",
		FeedPath:   "/airdrops/feed.json",
		SectionURL: "/airdrops/",
		Slots: cards.Slots{
			Title:   "airdrops-title",
			Meta:    "airdrops-meta",
			Excerpt: "airdrops-excerpt",
		},
	}
}

func TestRenderEmptyFeedFallback(t *testing.T) {
	t.Parallel()

	doc := testutil.ParseHTML(t, []byte(cardPage))
	cards.Render(doc, guidesBinding(), nil)

	title := doc.Find("#guides-title")
	require.Equal(t, "No posts yet — open Guides", title.Text())
	require.Equal(t, "/guides/", title.AttrOr("href", ""))
	require.Equal(t, "Guides", doc.Find("#guides-meta").Text())
	require.Contains(t, doc.Find("#guides-excerpt").Text(), "after the next bot run")
}

func TestRenderHappyPath(t *testing.T) {
	t.Parallel()

	doc := testutil.ParseHTML(t, []byte(cardPage))
	item := &feed.Item{
		Title:       "  Latest: Big Airdrop Live - CoolSite.com ",
		URL:         "/a/1",
		Excerpt:     "<p>Go claim it</p>",
		PublishedAt: "2024-03-01T00:00:00Z",
	}
	cards.Render(doc, airdropsBinding(), item)

	title := doc.Find("#airdrops-title")
	require.Equal(t, "Big Airdrop Live", title.Text())
	require.Equal(t, "/a/1", title.AttrOr("href", ""))
	require.Equal(t, "Airdrops & Quests • 2024-03-01", doc.Find("#airdrops-meta").Text())
	require.Equal(t, "Go claim it", doc.Find("#airdrops-excerpt").Text())
}

func TestRenderBlankFieldsDegrade(t *testing.T) {
	t.Parallel()

	doc := testutil.ParseHTML(t, []byte(cardPage))
	cards.Render(doc, guidesBinding(), &feed.Item{
		Title:       "   ",
		URL:         "",
		PublishedAt: "soon",
	})

	title := doc.Find("#guides-title")
	require.Equal(t, "Open Guides", title.Text(), "blank title falls back to the section label")
	require.Equal(t, "/guides/", title.AttrOr("href", ""), "blank url falls back to the section path")
	require.Equal(t, "Guides", doc.Find("#guides-meta").Text(), "malformed date drops from the meta line")
	require.Empty(t, doc.Find("#guides-excerpt").Text())
}

func TestRenderErrorFallback(t *testing.T) {
	t.Parallel()

	doc := testutil.ParseHTML(t, []byte(cardPage))
	cards.RenderError(doc, guidesBinding())

	title := doc.Find("#guides-title")
	require.Equal(t, "Open Guides", title.Text())
	require.Equal(t, "/guides/", title.AttrOr("href", ""))
	require.Empty(t, doc.Find("#guides-meta").Text())
	require.Contains(t, doc.Find("#guides-excerpt").Text(), "Try again later")
}

func TestRenderSeparateLinkSlot(t *testing.T) {
	t.Parallel()

	doc := testutil.ParseHTML(t, []byte(cardPage))
	b := cards.Binding{
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
	}
	cards.Render(doc, b, &feed.Item{Title: "Big story", URL: "/news/big"})

	require.Equal(t, "Big story", doc.Find("#top-story-title").Text())
	require.Equal(t, "/news/big", doc.Find("#top-story-link").AttrOr("href", ""))
	// The title slot is a span here, so it carries no link target.
	_, hasHref := doc.Find("#top-story-title").Attr("href")
	require.False(t, hasHref)
}

func TestRenderMissingSlotIsNoOp(t *testing.T) {
	t.Parallel()

	doc := testutil.ParseHTML(t, []byte(cardPage))
	b := guidesBinding()
	b.Slots.Excerpt = "guides-excerpt-not-there"

	cards.Render(doc, b, &feed.Item{Title: "Something"})

	require.Equal(t, "placeholder", doc.Find("#guides-title").Text(), "no partial writes")
	require.Empty(t, doc.Find("#guides-meta").Text())
}

func TestRenderDoesNotTouchOtherBindings(t *testing.T) {
	t.Parallel()

	doc := testutil.ParseHTML(t, []byte(cardPage))
	missing := cards.Binding{
		Key:        "projects",
		Label:      "Projects",
		SectionURL: "/projects/",
		Slots:      cards.Slots{Title: "projects-title", Meta: "projects-meta", Excerpt: "projects-excerpt"},
	}
	cards.Render(doc, missing, nil)
	cards.Render(doc, guidesBinding(), &feed.Item{Title: "Real one", URL: "/guides/x"})

	require.Equal(t, "Real one", doc.Find("#guides-title").Text())
	require.Equal(t, "placeholder", doc.Find("#airdrops-title").Text())
}

func TestRenderNilDocumentIsSafe(t *testing.T) {
	t.Parallel()

	cards.Render(nil, guidesBinding(), nil)
	cards.RenderError(nil, guidesBinding())
}
