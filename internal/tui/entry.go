package tui

import (
	"github.com/yiblet/clipkeep/internal/history"
	"github.com/yiblet/clipkeep/internal/store"
)

// Entry is a history item prepared for display.
type Entry struct {
	Item  *store.Item
	Title string

	// Lines caches the wrapped body for LinesWidth.
	Lines      []string
	LinesWidth int
}

// NewEntries wraps items for display.
func NewEntries(items []*store.Item) []*Entry {
	entries := make([]*Entry, len(items))
	for i, it := range items {
		entries[i] = &Entry{Item: it, Title: history.DisplayTitle(it)}
	}
	return entries
}

// Body returns the text shown in the content pane.
func (e *Entry) Body() string {
	if e.Item.Type == store.TypeImage {
		return "[image data, " + e.Item.FileSize + "]"
	}
	return e.Item.Content
}

// UpdateWrappedLines rewraps the body when width changed.
func (e *Entry) UpdateWrappedLines(width int) {
	if e.Lines != nil && e.LinesWidth == width {
		return
	}
	e.Lines = WrapText(e.Body(), width)
	e.LinesWidth = width
}
