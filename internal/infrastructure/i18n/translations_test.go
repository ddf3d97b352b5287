package i18n

import (
	"io"
	"log/slog"
	"testing"
)

func newTestTranslator() *Translator {
	return NewTranslator("fr", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTranslate(t *testing.T) {
	tr := newTestTranslator()

	tests := []struct {
		locale, key string
		data        map[string]any
		want        string
	}{
		{"fr", "section.today", nil, "Aujourd'hui"},
		{"en", "section.today", nil, "Today"},
		{"en-US", "section.tomorrow", nil, "Tomorrow"},
		{"de", "section.today", nil, "Aujourd'hui"},
		{"", "action.join", nil, "Je participe"},
		{"fr", "section.month", map[string]any{"Month": "Juin", "Year": 2026}, "Juin 2026"},
		{"en", "card.seats", map[string]any{"Taken": 3, "Max": 4}, "3/4 seats"},
		{"fr", "no.such.key", nil, "no.such.key"},
		{"fr", "", nil, ""},
	}
	for _, tt := range tests {
		if got := tr.T(tt.locale, tt.key, tt.data); got != tt.want {
			t.Errorf("T(%q, %q) = %q, want %q", tt.locale, tt.key, got, tt.want)
		}
	}
}

func TestEveryFrenchKeyHasEnglish(t *testing.T) {
	tr := newTestTranslator()
	for _, key := range []string{
		"feed.title", "feed.empty", "feed.select", "detail.deleted",
		"error.event_not_found", "error.generic", "reply.joined", "action.unhide",
	} {
		if got := tr.T("en", key, map[string]any{"Bucket": "x", "Title": "x"}); got == key {
			t.Errorf("missing English text for %q", key)
		}
	}
}

func TestResolveLocale(t *testing.T) {
	tr := newTestTranslator()
	tests := map[string]string{
		"":      "fr",
		"fr":    "fr",
		"fr-CA": "fr",
		"en-GB": "en",
		"ja":    "fr",
	}
	for locale, want := range tests {
		if got := tr.resolve(locale); got.String() != want {
			t.Errorf("resolve(%q) = %s, want %s", locale, got, want)
		}
	}
}

func TestBadDefaultLocaleFallsBackToFrench(t *testing.T) {
	tr := NewTranslator("%%", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if got := tr.T("", "section.today", nil); got != "Aujourd'hui" {
		t.Errorf("T = %q", got)
	}
}
