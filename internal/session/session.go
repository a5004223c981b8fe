// Package session keeps per-visitor state keyed by a cookie-held session id.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/xid"

	"charity-web/internal/cache"
)

// KeyLocationState holds the label of the visitor's last resolved or chosen
// location.
const KeyLocationState = "currentLocationState"

const keyPrefix = "session"

// Store reads and writes session values through a RawCache
type Store struct {
	cache      cache.RawCache
	ttl        time.Duration
	cookieName string
	secure     bool
}

func NewStore(c cache.RawCache, ttl time.Duration, cookieName string, secure bool) *Store {
	return &Store{
		cache:      c,
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
	}
}

// ID returns the request's session id, issuing a new one and setting the
// cookie when the request carries none or an invalid one.
func (s *Store) ID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		if id, err := xid.FromString(cookie.Value); err == nil {
			return id.String()
		}
	}

	id := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.replaceRequestCookie(r, id)
	return id
}

// replaceRequestCookie makes id the request's only session cookie so later
// ID calls in the same request see it.
func (s *Store) replaceRequestCookie(r *http.Request, id string) {
	others := make([]*http.Cookie, 0, len(r.Cookies()))
	for _, c := range r.Cookies() {
		if c.Name != s.cookieName {
			others = append(others, c)
		}
	}
	r.Header.Del("Cookie")
	for _, c := range others {
		r.AddCookie(c)
	}
	r.AddCookie(&http.Cookie{Name: s.cookieName, Value: id})
}

// Get returns the value stored under key for session id
func (s *Store) Get(ctx context.Context, id, key string) (string, bool, error) {
	raw, ok, err := s.cache.Get(ctx, cacheKey(id, key))
	if err != nil {
		return "", false, fmt.Errorf("failed to read session value %q: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return string(raw), true, nil
}

// Set stores value under key for session id and refreshes its TTL
func (s *Store) Set(ctx context.Context, id, key, value string) error {
	if err := s.cache.Set(ctx, cacheKey(id, key), []byte(value), s.ttl); err != nil {
		return fmt.Errorf("failed to write session value %q: %w", key, err)
	}
	return nil
}

func cacheKey(id, key string) string {
	return keyPrefix + ":" + id + ":" + key
}
