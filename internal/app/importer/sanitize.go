package importer

import (
	"path"
	"strings"

	"github.com/sleroq/keep-to-obsidian/internal/domain/settings"
)

// SanitizeName runs the problem table and then the invalid table over raw.
// Surrounding whitespace is trimmed after every entry, so a name that only
// consisted of replaced characters comes back empty.
func SanitizeName(raw string, maps settings.CharMaps) string {
	name := applyCharMaps(raw, maps.Problem)
	return applyCharMaps(name, maps.Invalid)
}

// SanitizePath sanitizes every "/"-separated segment of raw. Empty segments
// are dropped and the result never ends with a slash.
func SanitizePath(raw string, maps settings.CharMaps) string {
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = SanitizeName(part, maps)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return strings.TrimSuffix(strings.Join(out, "/"), "/")
}

func applyCharMaps(s string, table []settings.CharMap) string {
	for _, m := range table {
		if m.Char == "" {
			continue
		}
		s = strings.ReplaceAll(s, m.Char, m.Replacement)
		s = strings.TrimSpace(s)
	}
	return s
}

// SplitExt splits name into its base and extension. Dotfiles such as
// ".keep" have no extension.
func SplitExt(name string) (string, string) {
	ext := path.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

func FileExtension(name string) string {
	_, ext := SplitExt(name)
	return strings.ToLower(ext)
}

func joinVaultPath(folder, name string) string {
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
