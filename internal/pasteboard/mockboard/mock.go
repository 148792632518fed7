// Package mockboard provides a mock pasteboard implementation for testing.
package mockboard

import (
	"bytes"
	"sync"

	"github.com/yiblet/clipkeep/internal/pasteboard"
)

// MockBoard implements pasteboard.Board for testing. Every Set* call and
// every write bumps the change token, like a real pasteboard.
type MockBoard struct {
	mu       sync.Mutex
	token    int
	snapshot *pasteboard.Snapshot
	writes   int
	writeErr error
}

// New creates a new, empty MockBoard
func New() *MockBoard {
	return &MockBoard{}
}

// ChangeToken implements pasteboard.Source
func (m *MockBoard) ChangeToken() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Snapshot implements pasteboard.Source. It returns a copy of the current
// content.
func (m *MockBoard) Snapshot() *pasteboard.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot == nil {
		return nil
	}
	s := *m.snapshot
	s.Image = bytes.Clone(m.snapshot.Image)
	return &s
}

// WriteText implements pasteboard.Writer
func (m *MockBoard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.set(&pasteboard.Snapshot{Text: text})
	return nil
}

// WriteImage implements pasteboard.Writer
func (m *MockBoard) WriteImage(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.set(&pasteboard.Snapshot{Image: bytes.Clone(data)})
	return nil
}

// Set replaces the pasteboard content (for testing)
func (m *MockBoard) Set(s *pasteboard.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(s)
}

// SetText places text on the pasteboard (for testing)
func (m *MockBoard) SetText(text string) {
	m.Set(&pasteboard.Snapshot{Text: text})
}

// SetImage places image bytes on the pasteboard (for testing)
func (m *MockBoard) SetImage(data []byte) {
	m.Set(&pasteboard.Snapshot{Image: data})
}

// SetFileURL places a file reference on the pasteboard (for testing)
func (m *MockBoard) SetFileURL(u string) {
	m.Set(&pasteboard.Snapshot{FileURL: u})
}

// Clear empties the pasteboard (for testing)
func (m *MockBoard) Clear() {
	m.Set(nil)
}

// Writes returns how many successful writes were made (for testing)
func (m *MockBoard) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailWrites makes writes return err; nil restores them (for testing)
func (m *MockBoard) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *MockBoard) set(s *pasteboard.Snapshot) {
	m.snapshot = s
	m.token++
}
