package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WrapText wraps text to fit within a given width, breaking on word boundaries when possible.
// It handles newlines in the input and returns a slice of lines that fit within maxWidth.
// Widths are counted in runes. Tabs are expanded to four spaces.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{}
	}

	var result []string
	text = strings.ReplaceAll(text, "\t", "    ")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for _, line := range lines {
		if utf8.RuneCountInString(line) <= maxWidth {
			result = append(result, line)
			continue
		}

		result = append(result, wrapLine(line, maxWidth)...)
	}

	return result
}

// wrapLine wraps a single line that is too long, breaking on word boundaries when possible
func wrapLine(line string, maxWidth int) []string {
	var result []string
	var current []rune

	for _, word := range strings.FieldsFunc(line, unicode.IsSpace) {
		runes := []rune(word)

		// Break words longer than a line into chunks
		if len(runes) > maxWidth {
			if len(current) > 0 {
				result = append(result, string(current))
				current = nil
			}
			for len(runes) > maxWidth {
				result = append(result, string(runes[:maxWidth]))
				runes = runes[maxWidth:]
			}
			current = runes
			continue
		}

		switch {
		case len(current) == 0:
			current = runes
		case len(current)+1+len(runes) > maxWidth:
			result = append(result, string(current))
			current = runes
		default:
			current = append(append(current, ' '), runes...)
		}
	}

	if len(current) > 0 {
		result = append(result, string(current))
	}

	return result
}
