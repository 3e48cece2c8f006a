// Package theme resolves, applies, and persists the site's two-valued
// color-scheme preference.
package theme

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Preference is a validated theme choice.
type Preference string

const (
	Dark  Preference = "dark"
	Light Preference = "light"
)

// StorageKey is the single namespaced key under which the preference is
// persisted (cookie server-side, localStorage client-side).
const StorageKey = "tdh_theme"

// RootAttr is the attribute carrying the displayed theme on the document root.
const RootAttr = "data-theme"

// Parse validates a stored value. Anything other than the two known variants
// is reported as absent.
func Parse(s string) (Preference, bool) {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, true
	case Light:
		return Light, true
	}
	return "", false
}

// Other returns the opposite preference.
func (p Preference) Other() Preference {
	if p == Light {
		return Dark
	}
	return Light
}

// Storage persists the preference. Implementations may fail (storage disabled,
// quota, sandboxed context); the store treats every failure as "absent" on
// read and ignores it on write.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Store resolves and applies theme preferences against a document. The system
// signal, when non-nil, supplies the environment's preferred color scheme; it
// is consulted once per resolution and never subscribed to.
type Store struct {
	storage Storage
	system  func() (Preference, bool)
}

// NewStore builds a Store. Both arguments may be nil: a nil storage behaves as
// always-absent/always-failing, a nil system signal as "no environment hint".
func NewStore(storage Storage, system func() (Preference, bool)) *Store {
	return &Store{storage: storage, system: system}
}

// Displayed reports the theme currently reflected on the document root.
func Displayed(doc *goquery.Document) (Preference, bool) {
	if doc == nil {
		return "", false
	}
	return Parse(doc.Find("html").First().AttrOr(RootAttr, ""))
}

// Resolve returns the effective preference: persisted value, then the theme
// already reflected on the document root, then the environment signal, then
// dark. Storage failures fall through silently.
func (s *Store) Resolve(doc *goquery.Document) Preference {
	if s.storage != nil {
		if raw, err := s.storage.Get(StorageKey); err == nil {
			if p, ok := Parse(raw); ok {
				return p
			}
		}
	}
	if p, ok := Displayed(doc); ok {
		return p
	}
	if s.system != nil {
		if p, ok := s.system(); ok {
			return p
		}
	}
	return Dark
}

// Apply sets the displayed theme on the document root and persists it.
// Persistence failures are ignored; the displayed theme stays authoritative
// for the session.
func (s *Store) Apply(doc *goquery.Document, p Preference) {
	if _, ok := Parse(string(p)); !ok {
		p = Dark
	}
	if doc != nil {
		doc.Find("html").First().SetAttr(RootAttr, string(p))
	}
	if s.storage != nil {
		_ = s.storage.Set(StorageKey, string(p))
	}
}

// Toggle flips the currently displayed theme (not necessarily the stored one,
// to stay consistent with what the user sees), applies and persists the
// result, and returns the new value.
func (s *Store) Toggle(doc *goquery.Document) Preference {
	cur, ok := Displayed(doc)
	if !ok {
		cur = s.Resolve(doc)
	}
	next := cur.Other()
	s.Apply(doc, next)
	return next
}
