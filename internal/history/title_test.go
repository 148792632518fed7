package history

import (
	"strings"
	"testing"

	"github.com/yiblet/clipkeep/internal/store"
)

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name string
		item store.Item
		want string
	}{
		{"custom title wins", store.Item{Type: store.TypeText, Content: "body", CustomTitle: " Mine "}, "Mine"},
		{"first non-empty line", store.Item{Type: store.TypeText, Content: "\n\n  hello\tworld \nsecond"}, "hello world"},
		{"blank text", store.Item{Type: store.TypeText, Content: " \n\t"}, "[empty]"},
		{"image with size", store.Item{Type: store.TypeImage, Content: "AAAA", FileSize: "1.5 KB"}, "Image (1.5 KB)"},
		{"image without size", store.Item{Type: store.TypeImage, Content: "AAAA"}, "Image"},
		{"file base name", store.Item{Type: store.TypeFile, Content: "/Users/me/report.pdf"}, "report.pdf"},
		{"control characters", store.Item{Type: store.TypeCode, Content: "a\x00b\x1bc"}, "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayTitle(&tt.item); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayTitle_Truncates(t *testing.T) {
	it := &store.Item{Type: store.TypeText, Content: strings.Repeat("é", 200)}
	got := DisplayTitle(it)

	if n := len([]rune(got)); n != MaxTitleLength {
		t.Errorf("Expected %d runes, got %d", MaxTitleLength, n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis, got %q", got)
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		title  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is too long", 10, "this is..."},
		{"abc", 2, ".."},
		{"  padded  ", 10, "padded"},
	}

	for _, tt := range tests {
		if got := TruncateTitle(tt.title, tt.maxLen); got != tt.want {
			t.Errorf("TruncateTitle(%q, %d) = %q, want %q", tt.title, tt.maxLen, got, tt.want)
		}
	}
}

func TestSanitizeTitle(t *testing.T) {
	if got := SanitizeTitle("a\r\n\tb   c\x7f"); got != "a b c" {
		t.Errorf("SanitizeTitle() = %q", got)
	}
}
