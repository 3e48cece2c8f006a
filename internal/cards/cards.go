// Package cards writes a feed's newest item (or a fallback) into a homepage
// preview card's display slots.
package cards

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/TonDropHub/tdh-site/internal/feed"
)

// Slots names the card's display elements by id. Title and Link are optional;
// a card without a title slot shows only meta and excerpt, and most cards
// carry their link on the title anchor rather than a separate link slot.
type Slots struct {
	Title   string `yaml:"title"`
	Meta    string `yaml:"meta"`
	Excerpt string `yaml:"excerpt"`
	Link    string `yaml:"link"`
}

// Binding ties one homepage card to its feed and slots. Fixed at build time.
type Binding struct {
	Key        string `yaml:"key"`
	Label      string `yaml:"label"`
	FeedPath   string `yaml:"feed"`
	SectionURL string `yaml:"section_url"`
	Slots      Slots  `yaml:"slots"`
}

// Fallback copy shown when a feed has no usable item.
const (
	noPostsExcerpt = "The feed is connected. Posts will appear here automatically after the next bot run."
	errorExcerpt   = "Could not load the feed right now. Try again later."
)

type card struct {
	title   string
	url     string
	meta    string
	excerpt string
}

// Render fills the binding's slots from item, or with the empty-feed fallback
// when item is nil. Sanitization and field fallbacks follow the first-match
// state table: blank title and url degrade to the section's own label and
// path, a malformed date drops the date from the meta line.
func Render(doc *goquery.Document, b Binding, item *feed.Item) {
	if item == nil {
		setCard(doc, b, card{
			title:   "No posts yet — open " + b.Label,
			url:     b.SectionURL,
			meta:    b.Label,
			excerpt: noPostsExcerpt,
		})
		return
	}

	title := CleanTitle(item.Title)
	if title == "" {
		title = "Open " + b.Label
	}
	url := strings.TrimSpace(item.URL)
	if url == "" {
		url = b.SectionURL
	}
	meta := b.Label
	if date := FormatDate(item.PublishedAt); date != "" {
		meta = b.Label + " • " + date
	}
	setCard(doc, b, card{
		title:   title,
		url:     url,
		meta:    meta,
		excerpt: CleanExcerpt(item.ExcerptText()),
	})
}

// RenderError fills the binding's slots with the transport-failure fallback.
func RenderError(doc *goquery.Document, b Binding) {
	setCard(doc, b, card{
		title:   "Open " + b.Label,
		url:     b.SectionURL,
		excerpt: errorExcerpt,
	})
}

// setCard resolves every named slot up front and writes nothing unless all of
// them exist: a missing slot means this page variant doesn't carry the card.
func setCard(doc *goquery.Document, b Binding, c card) {
	if doc == nil {
		return
	}
	slots := map[string]*goquery.Selection{}
	for name, id := range map[string]string{
		"title":   b.Slots.Title,
		"meta":    b.Slots.Meta,
		"excerpt": b.Slots.Excerpt,
		"link":    b.Slots.Link,
	} {
		if id == "" {
			continue
		}
		sel := doc.Find("#" + id).First()
		if sel.Length() == 0 {
			return
		}
		slots[name] = sel
	}

	if t, ok := slots["title"]; ok {
		t.SetText(c.title)
		if t.Is("a") {
			t.SetAttr("href", c.url)
		}
	}
	if l, ok := slots["link"]; ok {
		l.SetAttr("href", c.url)
	}
	if m, ok := slots["meta"]; ok {
		m.SetText(c.meta)
	}
	if e, ok := slots["excerpt"]; ok {
		e.SetText(c.excerpt)
	}
}
