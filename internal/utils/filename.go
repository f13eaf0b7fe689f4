package utils

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename strips directory components and replaces every character
// outside [A-Za-z0-9._-] with an underscore. The result is safe to store
// alongside the generated disk name and to echo back in responses.
func SanitizeFilename(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "file"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if strings.Trim(out, "._") == "" {
		return "file"
	}
	return out
}
