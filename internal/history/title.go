package history

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yiblet/clipkeep/internal/store"
)

// MaxTitleLength is the display title limit, in runes.
const MaxTitleLength = 80

// DisplayTitle returns the title shown for an item: the custom title when
// set, otherwise one derived from the content.
func DisplayTitle(it *store.Item) string {
	if strings.TrimSpace(it.CustomTitle) != "" {
		return TruncateTitle(SanitizeTitle(it.CustomTitle), MaxTitleLength)
	}
	return TruncateTitle(GenerateTitle(it), MaxTitleLength)
}

// GenerateTitle creates a title from an item's content.
// Images are described by their size, files by their base name, and
// everything else by the first non-empty line.
func GenerateTitle(it *store.Item) string {
	switch it.Type {
	case store.TypeImage:
		if it.FileSize != "" {
			return "Image (" + it.FileSize + ")"
		}
		return "Image"
	case store.TypeFile:
		if base := filepath.Base(it.Content); base != "." && base != string(filepath.Separator) {
			return base
		}
		return "[file]"
	}

	for _, line := range strings.Split(it.Content, "\n") {
		if cleaned := SanitizeTitle(line); cleaned != "" {
			return cleaned
		}
	}
	return "[empty]"
}

// TruncateTitle ensures title is at most maxLen runes.
// If truncation is needed, appends "..." to indicate truncation.
func TruncateTitle(title string, maxLen int) string {
	title = strings.TrimSpace(title)

	if utf8.RuneCountInString(title) <= maxLen {
		return title
	}

	// Reserve 3 characters for "..."
	if maxLen < 3 {
		return strings.Repeat(".", maxLen)
	}

	runes := []rune(title)
	return strings.TrimSpace(string(runes[:maxLen-3])) + "..."
}

// SanitizeTitle removes control characters and collapses whitespace.
// This ensures titles are safe for display in terminals.
func SanitizeTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, title)

	return strings.Join(strings.Fields(title), " ")
}
