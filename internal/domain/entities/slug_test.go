package entities

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Soirée Jeux de Société !", "soiree-jeux-de-societe"},
		{"  Pique-nique @ Parc  ", "pique-nique-parc"},
		{"Ciné 2 Noël", "cine-2-noel"},
		{"!!!", "invitation"},
		{"", "invitation"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestSlugifyTruncates(t *testing.T) {
	got := Slugify(strings.Repeat("ça ", 50))
	if n := utf8.RuneCountInString(got); n > maxSlugRunes {
		t.Errorf("len = %d", n)
	}
	if !utf8.ValidString(got) || strings.HasSuffix(got, "-") {
		t.Errorf("bad slug %q", got)
	}
}
