package shell

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/TonDropHub/tdh-site/internal/theme"
)

// HeadAssets names the global resources every page's <head> must reference.
type HeadAssets struct {
	StylesheetHref string
	ScriptSrc      string
}

// DefaultHeadAssets returns the site's shared stylesheet and script.
func DefaultHeadAssets() HeadAssets {
	return HeadAssets{
		StylesheetHref: "/assets/style.css",
		ScriptSrc:      "/assets/site.js",
	}
}

// preloadScript applies the persisted theme before first paint so navigating
// between pages never flashes the wrong scheme.
func preloadScript() string {
	return `<script>(function(){try{var t=localStorage.getItem("` + theme.StorageKey + `");` +
		`if(t==="light"||t==="dark")document.documentElement.setAttribute("` + theme.RootAttr + `",t);` +
		`}catch(e){}})();</script>`
}

// NormalizeHead idempotently ensures the pre-paint theme snippet, the global
// stylesheet link, and the deferred site script are present in <head>. Pages
// that already reference an asset are left alone.
func NormalizeHead(doc *goquery.Document, assets HeadAssets) {
	if doc == nil {
		return
	}
	head := doc.Find("head").First()
	if head.Length() == 0 {
		return
	}

	if !hasPreloadSnippet(head) {
		// Right after <meta charset> when present, else first in head.
		if meta := head.Find("meta[charset]").First(); meta.Length() > 0 {
			meta.AfterHtml(preloadScript())
		} else {
			head.PrependHtml(preloadScript())
		}
	}

	if assets.StylesheetHref != "" {
		sel := fmt.Sprintf(`link[rel="stylesheet"][href=%q]`, assets.StylesheetHref)
		if doc.Find(sel).Length() == 0 {
			head.AppendHtml(fmt.Sprintf(`<link rel="stylesheet" href=%q>`, assets.StylesheetHref))
		}
	}

	if assets.ScriptSrc != "" {
		sel := fmt.Sprintf(`script[src=%q]`, assets.ScriptSrc)
		if doc.Find(sel).Length() == 0 {
			head.AppendHtml(fmt.Sprintf(`<script src=%q defer></script>`, assets.ScriptSrc))
		}
	}
}

func hasPreloadSnippet(head *goquery.Selection) bool {
	found := false
	head.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if strings.Contains(text, theme.StorageKey) && strings.Contains(text, "localStorage") {
			found = true
		}
	})
	return found
}
