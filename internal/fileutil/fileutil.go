// Package fileutil constructs safe output paths for downloads: filename
// sanitization, collision-free path selection, and destination free-space
// queries.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxFilenameRunes keeps generated names comfortably under common filesystem
// limits once an extension and collision suffix are appended.
const maxFilenameRunes = 150

var invalidFilenameChars = strings.NewReplacer(
	"<", "", ">", "", ":", "", "\"", "", "/", "",
	"\\", "", "|", "", "?", "", "*", "",
)

// SanitizeFilename turns an arbitrary media title into a filename valid on
// every supported platform. With restrict set, the result is further reduced
// to ASCII with underscores in place of whitespace.
func SanitizeFilename(title string, restrict bool) string {
	cleaned := norm.NFC.String(strings.TrimSpace(title))
	cleaned = invalidFilenameChars.Replace(cleaned)
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.Trim(cleaned, ". ")

	if restrict {
		cleaned = transliterate(cleaned)
		cleaned = strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				return r
			case r == '-' || r == '_' || r == '.':
				return r
			case r == ' ':
				return '_'
			default:
				return -1
			}
		}, cleaned)
		cleaned = strings.Trim(cleaned, "._")
	}

	if runeCount := len([]rune(cleaned)); runeCount > maxFilenameRunes {
		cleaned = string([]rune(cleaned)[:maxFilenameRunes])
		cleaned = strings.TrimRight(cleaned, ". ")
	}
	if cleaned == "" {
		cleaned = "download"
	}
	return cleaned
}

// transliterate strips combining marks so accented characters survive the
// ASCII restriction as their base letters.
func transliterate(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return result
}

// UniquePath returns path unchanged when it is free, otherwise the first
// "name (N).ext" variant that does not exist yet.
func UniquePath(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", fmt.Errorf("stat %q: %w", path, err)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; i < 1000; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				return candidate, nil
			}
			return "", fmt.Errorf("stat %q: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("no free filename variant for %q", path)
}

// EnsureDir creates dir and parents when missing.
func EnsureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("directory path is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
