// Package jsonstore persists the history as a single JSON array on disk.
// The same encoding is used for export and import files.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yiblet/clipkeep/internal/store"
)

// DefaultFileName is the history file name inside the data directory.
const DefaultFileName = "history.json"

// JSONStore is a store.HistoryStore backed by one JSON file.
type JSONStore struct {
	path string
}

// New creates a store for the file at path. The file is not touched until
// the first Load or Save.
func New(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the history file. A missing file yields an empty list.
func (s *JSONStore) Load() ([]*store.Item, error) {
	items, err := ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*store.Item{}, nil
	}
	return items, err
}

// Save atomically replaces the history file with items.
func (s *JSONStore) Save(items []*store.Item) error {
	return WriteFile(s.path, items)
}

// Version identifies the file on disk by modification time and size. A
// missing file has the empty version.
func (s *JSONStore) Version() (string, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()), nil
}

// Close releases resources (no-op for the file store).
func (s *JSONStore) Close() error {
	return nil
}

// Decode reads a JSON item array from r.
func Decode(r io.Reader) ([]*store.Item, error) {
	var items []*store.Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	for i, it := range items {
		if it == nil {
			return nil, fmt.Errorf("failed to decode history: null entry at index %d", i)
		}
	}
	if items == nil {
		items = []*store.Item{}
	}
	return items, nil
}

// Encode writes items to w as an indented JSON array.
func Encode(w io.Writer, items []*store.Item) error {
	if items == nil {
		items = []*store.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return nil
}

// ReadFile decodes the item array stored at path. When the file does not
// exist the returned error wraps os.ErrNotExist.
func ReadFile(path string) ([]*store.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// WriteFile atomically writes items to path. The data goes to a temporary
// file in the same directory, is fsynced, then renamed into place, so
// readers never observe a partial history.
func WriteFile(path string, items []*store.Item) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := Encode(tmp, items); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move history file into place: %w", err)
	}

	if d, err := os.Open(dir); err == nil {
		d.Sync()
		d.Close()
	}
	return nil
}
