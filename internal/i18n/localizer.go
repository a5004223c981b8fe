package i18n

import (
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
)

// Localizer translates message ids for one language
type Localizer struct {
	lang      string
	localizer *goi18n.Localizer
}

// Lang returns the language code, e.g. "ar"
func (l *Localizer) Lang() string {
	return l.lang
}

// Dir returns the text direction for the html dir attribute
func (l *Localizer) Dir() string {
	if rtlLanguages[l.lang] {
		return "rtl"
	}
	return "ltr"
}

// T translates id. Unknown ids are returned as is.
func (l *Localizer) T(id string) string {
	return l.localize(&goi18n.LocalizeConfig{MessageID: id})
}

// TWith translates id with template data
func (l *Localizer) TWith(id string, data map[string]any) string {
	return l.localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
}

// TCount translates a plural message; data exposes the count as .Count
func (l *Localizer) TCount(id string, count int) string {
	return l.localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

func (l *Localizer) localize(cfg *goi18n.LocalizeConfig) string {
	cfg.DefaultMessage = &goi18n.Message{ID: cfg.MessageID, Other: cfg.MessageID}
	msg, err := l.localizer.Localize(cfg)
	// A missing plural form still yields the "other" text alongside an error
	if msg == "" && err != nil {
		return cfg.MessageID
	}
	return msg
}
