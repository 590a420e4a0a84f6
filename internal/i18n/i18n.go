// Package i18n provides display labels for feast name keys.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves label keys for the embedded locales.
type Translator struct {
	bundle     *i18n.Bundle
	tags       []language.Tag
	matcher    language.Matcher
	localizers map[language.Tag]*i18n.Localizer
	logger     *slog.Logger
}

// New loads every locales/active.<lang>.json file. defaultLocale is used when
// a request names no supported language and must be one of the loaded locales.
func New(defaultLocale string, logger *slog.Logger) (*Translator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			logger.Debug("skipping locale file", slog.String("file", name))
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", name, err)
		}
	}

	// The default goes first so the matcher falls back to it.
	tags := []language.Tag{def}
	found := false
	for _, tag := range bundle.LanguageTags() {
		if tag == def {
			found = true
			continue
		}
		tags = append(tags, tag)
	}
	if !found {
		return nil, fmt.Errorf("default locale %q has no translations", defaultLocale)
	}

	localizers := make(map[language.Tag]*i18n.Localizer, len(tags))
	for _, tag := range tags {
		localizers[tag] = i18n.NewLocalizer(bundle, tag.String())
	}

	logger.Debug("locales loaded", slog.Int("count", len(tags)), slog.String("default", def.String()))

	return &Translator{
		bundle:     bundle,
		tags:       tags,
		matcher:    language.NewMatcher(tags),
		localizers: localizers,
		logger:     logger,
	}, nil
}

// Languages lists the supported locales, default first.
func (t *Translator) Languages() []string {
	out := make([]string, len(t.tags))
	for i, tag := range t.tags {
		out[i] = tag.String()
	}
	return out
}

// Default returns the fallback locale.
func (t *Translator) Default() string {
	return t.tags[0].String()
}

// Match picks the best supported locale for a language preference. Each
// argument may be a bare tag ("fr") or an Accept-Language header value;
// earlier arguments win. Unsupported or empty input yields the default.
func (t *Translator) Match(prefs ...string) language.Tag {
	_, index := language.MatchStrings(t.matcher, prefs...)
	return t.tags[index]
}

// Label returns the display text for key in the best matching locale, or the
// key itself when no translation exists.
func (t *Translator) Label(lang, key string) string {
	tag := t.Match(lang)
	msg, err := t.localizers[tag].Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		t.logger.Debug("missing translation",
			slog.String("lang", tag.String()),
			slog.String("key", key),
		)
		return key
	}
	return msg
}

// Labeler binds Label to one language.
func (t *Translator) Labeler(lang string) func(key string) string {
	return func(key string) string {
		return t.Label(lang, key)
	}
}

// HebrewMonthKey is the label key for a Hebrew month name.
func HebrewMonthKey(name string) string {
	return "hebrew_month." + name
}

// SystemKey is the label key for a calendar system name.
func SystemKey(name string) string {
	return "system." + name
}
