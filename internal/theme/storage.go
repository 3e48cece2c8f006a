package theme

import (
	"net/http"
	"strings"
	"sync"
)

// MemoryStorage is an in-process Storage used by the patcher and in tests.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: map[string]string{}}
}

func (s *MemoryStorage) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

const cookieMaxAge = 365 * 24 * 60 * 60

// CookieStorage persists the preference as a request-scoped cookie. The cookie
// is deliberately not HttpOnly so the pre-paint snippet can read it.
type CookieStorage struct {
	r *http.Request
	w http.ResponseWriter
}

// NewCookieStorage binds storage to one request/response pair.
func NewCookieStorage(w http.ResponseWriter, r *http.Request) *CookieStorage {
	return &CookieStorage{r: r, w: w}
}

// Get reads the named cookie. A missing cookie is absence, not an error.
func (s *CookieStorage) Get(key string) (string, error) {
	if s.r == nil {
		return "", nil
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", nil
	}
	return c.Value, nil
}

func (s *CookieStorage) Set(key, value string) error {
	if s.w == nil {
		return nil
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: false,
	})
	return nil
}

// SystemFromRequest derives the environment color-scheme signal from the
// Sec-CH-Prefers-Color-Scheme client hint, when the browser sent one.
func SystemFromRequest(r *http.Request) func() (Preference, bool) {
	hint := ""
	if r != nil {
		hint = r.Header.Get("Sec-CH-Prefers-Color-Scheme")
	}
	return func() (Preference, bool) {
		return Parse(strings.Trim(hint, `"`))
	}
}
