package cards

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripMarkup = bluemonday.StrictPolicy()

	spaceRun = regexp.MustCompile(`\s+`)

	// Boilerplate lead-ins some sources prepend to every headline.
	leadingBoilerplate = regexp.MustCompile(`(?i)^(?:latest|newest|breaking|update|news)\b\s*[:\-–—|]?\s*`)

	absoluteURL = regexp.MustCompile(`https?://\S+`)

	// " - CoolSite.com" / " | coolsite.io" attribution suffixes.
	trailingAttribution = regexp.MustCompile(`\s*[-|]\s*(?:[A-Za-z0-9][A-Za-z0-9-]*\.)+[A-Za-z]{2,}\s*$`)
)

// CleanExcerpt strips markup and embedded URLs from feed-supplied excerpt
// text and collapses whitespace.
func CleanExcerpt(s string) string {
	return collapse(absoluteURL.ReplaceAllString(plainText(s), ""))
}

// CleanTitle applies the excerpt rules plus headline-specific ones: leading
// boilerplate words and trailing source-site attributions are removed.
func CleanTitle(s string) string {
	t := collapse(plainText(s))
	for {
		stripped := leadingBoilerplate.ReplaceAllString(t, "")
		if stripped == t {
			break
		}
		t = stripped
	}
	t = collapse(absoluteURL.ReplaceAllString(t, ""))
	return strings.TrimSpace(trailingAttribution.ReplaceAllString(t, ""))
}

// FormatDate reduces an ISO-like timestamp to its date part. Anything shorter
// than a full date is treated as absent.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return ""
	}
	return s[:10]
}

func plainText(s string) string {
	// The policy HTML-escapes its output; undo that to get display text.
	return html.UnescapeString(stripMarkup.Sanitize(s))
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
