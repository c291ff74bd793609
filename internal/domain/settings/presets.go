package settings

import (
	"fmt"
	"strings"
)

// Preset names a built-in invalid-character table for an operating system
// family.
type Preset string

const (
	PresetAllWindows   Preset = "all/windows"
	PresetAppleAndroid Preset = "apple/android"
	PresetLinux        Preset = "linux"
	PresetCustom       Preset = "custom"
)

var presetOrder = []Preset{PresetAllWindows, PresetAppleAndroid, PresetLinux}

// Replacements never contain a character that either default table maps,
// which keeps sanitizing idempotent.
var presetTables = map[Preset][]CharMap{
	PresetAllWindows: {
		{Char: "/", Replacement: "-"},
		{Char: "\\", Replacement: "-"},
		{Char: ":", Replacement: "-"},
		{Char: "*", Replacement: "-"},
		{Char: "?", Replacement: ""},
		{Char: "\"", Replacement: "'"},
		{Char: "<", Replacement: "("},
		{Char: ">", Replacement: ")"},
		{Char: "|", Replacement: "-"},
	},
	PresetAppleAndroid: {
		{Char: "/", Replacement: "-"},
		{Char: "\\", Replacement: "-"},
		{Char: ":", Replacement: "-"},
	},
	PresetLinux: {
		{Char: "/", Replacement: "-"},
	},
}

func Presets() []Preset {
	out := make([]Preset, len(presetOrder))
	copy(out, presetOrder)
	return out
}

// PresetTable returns a copy of the table behind p. Custom has no table.
func PresetTable(p Preset) ([]CharMap, bool) {
	table, ok := presetTables[p]
	if !ok {
		return nil, false
	}
	return cloneCharMaps(table), true
}

// MatchPreset returns the preset whose table equals table entry for entry,
// or PresetCustom.
func MatchPreset(table []CharMap) Preset {
	for _, p := range presetOrder {
		if charMapsEqual(presetTables[p], table) {
			return p
		}
	}
	return PresetCustom
}

// PresetForOS picks the narrowest table that is still safe on goos.
func PresetForOS(goos string) Preset {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return PresetLinux
	case "darwin", "ios", "android":
		return PresetAppleAndroid
	default:
		return PresetAllWindows
	}
}

func ParsePreset(raw string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := presetTables[p]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: preset %q: expected all/windows, apple/android, or linux", ErrInvalidValue, raw)
}

func charMapsEqual(a, b []CharMap) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
