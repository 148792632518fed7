// Package classify turns pasteboard snapshots into history item candidates.
//
// A snapshot yields at most one item. Representations are tried in priority
// order: text, then image bytes, then a file reference. Classification never
// fails; a snapshot with nothing usable yields nil.
package classify

import (
	"encoding/base64"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/yiblet/clipkeep/internal/pasteboard"
	"github.com/yiblet/clipkeep/internal/store"
)

// Classifier builds item candidates. The zero value is not usable; use New.
type Classifier struct {
	now   func() time.Time
	newID func() string
	stat  func(name string) (os.FileInfo, error)
}

// Option customizes a Classifier.
type Option func(*Classifier)

// WithClock sets the source of item timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// WithIDGenerator sets the source of item ids.
func WithIDGenerator(newID func() string) Option {
	return func(c *Classifier) { c.newID = newID }
}

// New creates a Classifier using the wall clock and random UUIDs.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		now:   time.Now,
		newID: uuid.NewString,
		stat:  os.Stat,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the candidate item for snap, or nil when snap holds
// nothing classifiable.
func (c *Classifier) Classify(snap *pasteboard.Snapshot) *store.Item {
	if snap.IsEmpty() {
		return nil
	}

	var item *store.Item
	switch {
	case snap.Text != "":
		item = &store.Item{
			Content: snap.Text,
			Type:    DetectTextType(snap.Text),
		}
	case len(snap.Image) > 0:
		item = &store.Item{
			Content:  base64.StdEncoding.EncodeToString(snap.Image),
			Type:     store.TypeImage,
			FileSize: FormatSize(int64(len(snap.Image))),
		}
	default:
		path := filePath(snap.FileURL)
		item = &store.Item{
			Content: path,
			Type:    store.TypeFile,
		}
		if info, err := c.stat(path); err == nil && info.Mode().IsRegular() {
			item.FileSize = FormatSize(info.Size())
		}
	}

	item.ID = c.newID()
	item.Timestamp = c.now()
	item.SourceApp = snap.SourceApp
	item.SourceAppIdentifier = snap.SourceAppIdentifier
	item.Tags = []string{}
	return item
}

// filePath converts a file:// URL to a local path. Anything else is
// returned unchanged.
func filePath(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return fileURL
	}
	return u.Path
}
