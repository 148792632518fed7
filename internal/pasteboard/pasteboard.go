// Package pasteboard defines how clipkeep reads from and writes to the
// system clipboard. Implementations live in subpackages:
//
//	sysboard : native clipboard via golang.design/x/clipboard (cgo)
//	cmdboard : pbcopy/pbpaste or xclip/xsel, text only
//	mockboard: scriptable board for tests
package pasteboard

import (
	"net/url"
	"strings"
)

// Snapshot is the content currently on the pasteboard. A snapshot may carry
// several representations; the classifier decides which one wins.
type Snapshot struct {
	Text    string
	Image   []byte
	FileURL string

	// Best-effort provenance. Empty when the platform cannot tell.
	SourceApp           string
	SourceAppIdentifier string
}

// IsEmpty reports whether the snapshot has no usable representation.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (s.Text == "" && len(s.Image) == 0 && s.FileURL == "")
}

// Source is the pull interface the history engine polls.
type Source interface {
	// ChangeToken returns a counter that changes whenever new content is
	// copied. The value itself carries no meaning.
	ChangeToken() int

	// Snapshot returns the current content, or nil when the pasteboard is
	// empty or holds nothing readable.
	Snapshot() *Snapshot
}

// Writer puts content back on the pasteboard.
type Writer interface {
	WriteText(text string) error
	WriteImage(data []byte) error
}

// Board is a pasteboard that can be both polled and written.
type Board interface {
	Source
	Writer
}

// FromText builds a snapshot for a text read. Text that is exactly one
// file:// URL is reported as a file reference instead, matching how
// desktop pasteboards expose copied files.
func FromText(text string) *Snapshot {
	if text == "" {
		return nil
	}
	if fileURL, ok := asFileURL(text); ok {
		return &Snapshot{FileURL: fileURL}
	}
	return &Snapshot{Text: text}
}

func asFileURL(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "file://") || strings.ContainsAny(s, "\r\n") {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return "", false
	}
	return s, true
}
