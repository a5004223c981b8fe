// Package i18n loads the embedded translation files and picks the language
// for each request.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const (
	// QueryParam is set by the language switcher
	QueryParam = "lng"
	// CookieName caches the chosen language between visits
	CookieName = "i18next"

	cookieMaxAge = 365 * 24 * time.Hour
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

//go:embed languages/*/translation.json
var languageFS embed.FS

// supported lists the languages shipped with the site, in switcher order
var supported = []string{"en", "ar"}

var rtlLanguages = map[string]bool{"ar": true}

// Bundle holds every translation and the language matcher built from them
type Bundle struct {
	bundle   *goi18n.Bundle
	files    map[string][]byte
	tags     []language.Tag
	matcher  language.Matcher
	fallback string
}

// NewBundle parses the embedded translation files. fallback must be one of
// the supported languages.
func NewBundle(fallback string) (*Bundle, error) {
	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if fallback == "" {
		fallback = supported[0]
	}

	fallbackTag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fallback language %q: %w", fallback, err)
	}

	b := &Bundle{
		bundle:   goi18n.NewBundle(fallbackTag),
		files:    make(map[string][]byte, len(supported)),
		tags:     make([]language.Tag, 0, len(supported)),
		fallback: fallback,
	}
	b.bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	found := false
	for _, lang := range supported {
		data, err := languageFS.ReadFile(path.Join("languages", lang, "translation.json"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s translations: %w", lang, err)
		}
		// go-i18n takes the language from the file name
		if _, err := b.bundle.ParseMessageFileBytes(data, lang+".json"); err != nil {
			return nil, fmt.Errorf("failed to parse %s translations: %w", lang, err)
		}
		b.files[lang] = data
		b.tags = append(b.tags, language.MustParse(lang))
		if lang == fallback {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: fallback %q", ErrUnsupportedLanguage, fallback)
	}
	b.matcher = language.NewMatcher(b.tags)

	return b, nil
}

// Supported returns the supported language codes
func (b *Bundle) Supported() []string {
	return append([]string(nil), supported...)
}

// Fallback is the language used when nothing else matches
func (b *Bundle) Fallback() string {
	return b.fallback
}

// TranslationFile returns the raw translation file for lang
func (b *Bundle) TranslationFile(lang string) ([]byte, error) {
	data, ok := b.files[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return data, nil
}

// Match maps a language tag such as "ar-EG" to a supported code
func (b *Bundle) Match(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	return b.match(tag)
}

func (b *Bundle) match(tags ...language.Tag) (string, bool) {
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return supported[index], true
}

// Resolve picks the request language: the lng query param, the i18next
// cookie, the subdomain, then Accept-Language. The bool reports whether the
// choice came from the query and should be persisted.
func (b *Bundle) Resolve(r *http.Request) (string, bool) {
	if r == nil {
		return b.fallback, false
	}

	if lang, ok := b.Match(r.URL.Query().Get(QueryParam)); ok {
		return lang, true
	}

	if cookie, err := r.Cookie(CookieName); err == nil {
		if lang, ok := b.Match(cookie.Value); ok {
			return lang, false
		}
	}

	if lang, ok := b.subdomain(r.Host); ok {
		return lang, false
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if lang, ok := b.match(tags...); ok {
				return lang, false
			}
		}
	}

	return b.fallback, false
}

// subdomain matches hosts such as ar.example.org
func (b *Bundle) subdomain(host string) (string, bool) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return "", false
	}
	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return "", false
	}
	for _, lang := range supported {
		if strings.EqualFold(labels[0], lang) {
			return lang, true
		}
	}
	return "", false
}

// SetCookie persists the chosen language on the response
func SetCookie(w http.ResponseWriter, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Localizer returns a translator for lang, falling back when lang is unknown
func (b *Bundle) Localizer(lang string) *Localizer {
	if _, ok := b.files[lang]; !ok {
		lang = b.fallback
	}
	return &Localizer{
		lang:      lang,
		localizer: goi18n.NewLocalizer(b.bundle, lang, b.fallback),
	}
}
