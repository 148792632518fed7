// Package datadir resolves where clipkeep keeps its history on disk.
package datadir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	ConfigDir      = ".config/clipkeep"
	DefaultHistDir = "history"
)

// Dir is the directory holding the history store files.
type Dir struct {
	root string
}

// New returns the default data directory, ~/.config/clipkeep/history/.
func New() (*Dir, error) {
	return NewWithHistoryPath("")
}

// NewWithHistoryPath creates the history directory and returns it.
// If historyPath is empty, uses default ~/.config/clipkeep/history/
// If historyPath is absolute, uses it directly as the full history directory
// If historyPath is relative, treats as subdirectory of ~/.config/clipkeep/
func NewWithHistoryPath(historyPath string) (*Dir, error) {
	var historyDir string

	if filepath.IsAbs(historyPath) {
		historyDir = historyPath
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		if historyPath == "" {
			historyPath = DefaultHistDir
		}
		historyDir = filepath.Join(homeDir, ConfigDir, historyPath)
	}

	if err := os.MkdirAll(historyDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &Dir{root: historyDir}, nil
}

// NewWithRoot creates a Dir with a custom root (for testing)
func NewWithRoot(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the root directory path
func (d *Dir) Root() string {
	return d.root
}

// Path joins name onto the root.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, name)
}

// ExportPath returns the default file name for an export written at stamp.
func ExportPath(stamp string) string {
	return fmt.Sprintf("clipkeep-export-%s.json", stamp)
}
