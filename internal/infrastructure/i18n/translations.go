package i18n

import (
	"embed"
	"io/fs"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"invitefeed/internal/ports/output"
)

//go:embed active.*.toml
var catalogueFS embed.FS

var _ output.T = (*Translator)(nil)

// Translator serves the feed's labels and Discord strings from the embedded
// active.<lang>.toml catalogues. Discord locales such as "en-US" or "fr" are
// matched to the closest catalogue; anything unmatched uses the default.
type Translator struct {
	bundle    *i18n.Bundle
	matcher   language.Matcher
	supported []language.Tag // supported[0] is the default language
	logger    *slog.Logger
}

// NewTranslator loads every embedded catalogue. An unparseable defaultLocale
// falls back to French, the language of the feed's own messages.
func NewTranslator(defaultLocale string, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	def, err := language.Parse(defaultLocale)
	if err != nil {
		logger.Warn("⚠️ Langue par défaut invalide, on passe en français", "locale", defaultLocale, "err", err)
		def = language.French
	}
	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, _ := fs.Glob(catalogueFS, "active.*.toml")
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(catalogueFS, file); err != nil {
			logger.Error("❌ Catalogue de traductions illisible", "file", file, "err", err)
		}
	}

	supported := []language.Tag{def}
	for _, tag := range bundle.LanguageTags() {
		if tag != def {
			supported = append(supported, tag)
		}
	}
	return &Translator{
		bundle:    bundle,
		matcher:   language.NewMatcher(supported),
		supported: supported,
		logger:    logger,
	}
}

// resolve maps a client locale onto one of the loaded catalogues.
func (t *Translator) resolve(locale string) language.Tag {
	if locale == "" {
		return t.supported[0]
	}
	_, idx, conf := t.matcher.Match(language.Make(locale))
	if conf == language.No {
		return t.supported[0]
	}
	return t.supported[idx]
}

// T renders key for locale with data as template values. A key missing from
// the matched catalogue is rendered from the default one; a key missing from
// both comes back unchanged so the gap shows up on screen.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	tag := t.resolve(locale)
	localizer := i18n.NewLocalizer(t.bundle, tag.String(), t.supported[0].String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Debug("traduction manquante", "key", key, "locale", tag, "err", err)
		if msg == "" {
			return key
		}
	}
	return msg
}
