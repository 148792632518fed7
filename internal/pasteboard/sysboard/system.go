// Package sysboard implements the pasteboard on top of the native system
// clipboard (golang.design/x/clipboard). Change detection uses the
// library's watch channels; each observed change advances the token.
package sysboard

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.design/x/clipboard"

	"github.com/yiblet/clipkeep/internal/pasteboard"
)

// SystemBoard implements pasteboard.Board for the native clipboard.
type SystemBoard struct {
	token atomic.Int64
}

// New initializes the native clipboard. It fails when the platform
// clipboard is unavailable (no display server, cgo disabled).
func New() (*SystemBoard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	return &SystemBoard{}, nil
}

// Start begins watching the clipboard for text and image changes until ctx
// is cancelled.
func (s *SystemBoard) Start(ctx context.Context) {
	go s.watch(ctx, clipboard.FmtText)
	go s.watch(ctx, clipboard.FmtImage)
}

func (s *SystemBoard) watch(ctx context.Context, f clipboard.Format) {
	for range clipboard.Watch(ctx, f) {
		s.token.Add(1)
	}
}

// ChangeToken implements pasteboard.Source
func (s *SystemBoard) ChangeToken() int {
	return int(s.token.Load())
}

// Snapshot implements pasteboard.Source. Text wins over image data.
func (s *SystemBoard) Snapshot() *pasteboard.Snapshot {
	if text := clipboard.Read(clipboard.FmtText); len(text) > 0 {
		return pasteboard.FromText(string(text))
	}
	if img := clipboard.Read(clipboard.FmtImage); len(img) > 0 {
		return &pasteboard.Snapshot{Image: img}
	}
	return nil
}

// WriteText implements pasteboard.Writer
func (s *SystemBoard) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// WriteImage implements pasteboard.Writer. data must be PNG encoded.
func (s *SystemBoard) WriteImage(data []byte) error {
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}
