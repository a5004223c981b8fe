package web

import (
	"net/url"
	"strings"
	"time"

	"charity-web/internal/donate"
	"charity-web/internal/i18n"
	"charity-web/internal/types"
)

// Page is a static page served from the shared page template
type Page struct {
	Name     string
	Path     string
	NavKey   string
	TitleKey string
	BodyKey  string
}

// Pages lists the static routes; order is navigation order
var Pages = []Page{
	{Name: "home", Path: "/", NavKey: "nav_home", TitleKey: "home_title", BodyKey: "home_desc"},
	{Name: "news", Path: "/news", NavKey: "nav_news", TitleKey: "news_title", BodyKey: "news_desc"},
	{Name: "about", Path: "/about", NavKey: "nav_about", TitleKey: "about_title", BodyKey: "about_desc"},
	{Name: "works", Path: "/works", NavKey: "nav_works", TitleKey: "works_title", BodyKey: "works_desc"},
	{Name: "contact", Path: "/contact", NavKey: "nav_contact", TitleKey: "contact_title", BodyKey: "contact_desc"},
	{Name: "privacy", Path: "/privacy", NavKey: "privacy_title", TitleKey: "privacy_title", BodyKey: "privacy_desc"},
	{Name: "terms", Path: "/terms", NavKey: "terms_title", TitleKey: "terms_title", BodyKey: "terms_desc"},
	{Name: "help", Path: "/help", NavKey: "help_title", TitleKey: "help_title", BodyKey: "help_desc"},
}

var footerPages = map[string]bool{"privacy": true, "terms": true, "help": true}

// NavLink is one header or footer link
type NavLink struct {
	Path   string
	NavKey string
	Active bool
}

// LanguageOption is one entry of the language switcher
type LanguageOption struct {
	Code   string
	Label  string
	URL    string
	Active bool
}

// Layout carries what the shared layout needs
type Layout struct {
	L         *i18n.Localizer
	Title     string
	Path      string
	Nav       []NavLink
	Footer    []NavLink
	Languages []LanguageOption
	Year      int
}

// NewLayout builds the layout data for a page at path
func NewLayout(l *i18n.Localizer, supported []string, path, rawQuery, titleKey string) Layout {
	layout := Layout{
		L:     l,
		Title: l.T(titleKey),
		Path:  path,
		Year:  time.Now().Year(),
	}
	for _, p := range Pages {
		link := NavLink{Path: p.Path, NavKey: p.NavKey, Active: p.Path == path}
		if footerPages[p.Name] {
			layout.Footer = append(layout.Footer, link)
			continue
		}
		layout.Nav = append(layout.Nav, link)
	}
	for _, code := range supported {
		layout.Languages = append(layout.Languages, LanguageOption{
			Code:   code,
			Label:  l.T("lang_" + code),
			URL:    LanguageURL(path, rawQuery, code),
			Active: code == l.Lang(),
		})
	}
	return layout
}

// LanguageURL returns path with the lng parameter set to lang
func LanguageURL(path, rawQuery, lang string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(i18n.QueryParam, lang)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// PageView is the data for a static page
type PageView struct {
	Layout
	Name     string
	TitleKey string
	BodyKey  string
}

// NewPageView builds the view for a static page
func NewPageView(layout Layout, p Page) PageView {
	return PageView{Layout: layout, Name: p.Name, TitleKey: p.TitleKey, BodyKey: p.BodyKey}
}

// DonateView is the data for the donate page
type DonateView struct {
	Layout
	Loading       bool
	Error         string
	ErrorKind     string
	Charities     []types.Charity
	Count         int
	SelectedState string
	StateOptions  []string
}

// NewDonateView flattens a donate state for the template. selected is the
// value shown in the state selector.
func NewDonateView(layout Layout, s donate.State, selected string) DonateView {
	charities := s.Charities()
	return DonateView{
		Layout:        layout,
		Loading:       s.Loading(),
		Error:         s.ErrorMessage(),
		ErrorKind:     string(s.ErrorKind()),
		Charities:     charities,
		Count:         len(charities),
		SelectedState: selected,
		StateOptions:  StateOptions(selected),
	}
}

// NotFoundView is the data for the 404 page
type NotFoundView struct {
	Layout
}
