package importer

import (
	"testing"

	"github.com/sleroq/keep-to-obsidian/internal/domain/settings"
)

func TestSanitizeNameAppliesProblemThenInvalidChars(t *testing.T) {
	maps := settings.Defaults().CharMaps()

	cases := map[string]string{
		"a#b [c]|d: e?":  "ab (c)-d- e",
		"  #tag  ":       "tag",
		"##":             "",
		"Shopping list":  "Shopping list",
		`say "hi" <now>`: "say 'hi' (now)",
		"^caret":         "caret",
	}
	for in, want := range cases {
		if got := SanitizeName(in, maps); got != want {
			t.Fatalf("SanitizeName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestSanitizeNameIsIdempotent(t *testing.T) {
	inputs := []string{
		"", " ", "plain", "  padded  ", "a/b\\c:d*e?f\"g<h>i|j", "#[^]|", "[[link]]",
		"# heading ", "tab\tname", "unicodé ✓", "trailing :", "?  ?", "a | b",
	}
	for _, preset := range settings.Presets() {
		s := settings.Update(settings.Defaults(), settings.WithInvalidCharPreset(preset))
		maps := s.CharMaps()
		for _, in := range inputs {
			once := SanitizeName(in, maps)
			twice := SanitizeName(once, maps)
			if once != twice {
				t.Fatalf("preset %s: sanitizing %q twice changed %q to %q", preset, in, once, twice)
			}
		}
	}
}

func TestSanitizeNameSkipsEmptySourceEntries(t *testing.T) {
	maps := settings.CharMaps{Problem: []settings.CharMap{{Char: "", Replacement: "x"}}}
	if got := SanitizeName("abc", maps); got != "abc" {
		t.Fatalf("expected empty source entry to be ignored, got %q", got)
	}
}

func TestSanitizePath(t *testing.T) {
	maps := settings.Defaults().CharMaps()

	cases := map[string]string{
		"Keep Imports/Assets/": "Keep Imports/Assets",
		"a:b/c|d":              "a-b/c-d",
		"/leading//double/":    "leading/double",
		"":                     "",
	}
	for in, want := range cases {
		if got := SanitizePath(in, maps); got != want {
			t.Fatalf("SanitizePath(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestSplitExt(t *testing.T) {
	cases := []struct {
		in, base, ext string
	}{
		{"note.json", "note", ".json"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"README", "README", ""},
		{".hidden", ".hidden", ""},
	}
	for _, tc := range cases {
		base, ext := SplitExt(tc.in)
		if base != tc.base || ext != tc.ext {
			t.Fatalf("SplitExt(%q): expected (%q, %q), got (%q, %q)", tc.in, tc.base, tc.ext, base, ext)
		}
	}
	if got := FileExtension("Photo.JPG"); got != ".jpg" {
		t.Fatalf("expected lower-case extension, got %q", got)
	}
}
