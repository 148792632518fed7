// Package cmdboard implements a text-only pasteboard using platform commands.
// On macOS it uses pbcopy/pbpaste, on Linux it uses xclip or xsel as a fallback.
// It serves builds and hosts where the native clipboard cannot be initialized.
package cmdboard

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/yiblet/clipkeep/internal/pasteboard"
)

// ErrImagesUnsupported is returned by WriteImage.
var ErrImagesUnsupported = errors.New("command pasteboard supports text only")

// runner executes a command with optional stdin and returns its stdout.
type runner func(stdin io.Reader, name string, args ...string) ([]byte, error)

// CommandBoard implements pasteboard.Board using system commands. The
// change token advances whenever the text read differs from the previous
// read.
type CommandBoard struct {
	run runner

	mu       sync.Mutex
	token    int
	lastHash [sha256.Size]byte
	lastText string
}

// New creates a new CommandBoard instance
func New() *CommandBoard {
	return &CommandBoard{run: runCommand}
}

// IsSupported returns true if clipboard commands are available on this system
func IsSupported() bool {
	switch runtime.GOOS {
	case "darwin":
		// Check if pbcopy/pbpaste are available
		if _, err := exec.LookPath("pbcopy"); err != nil {
			return false
		}
		if _, err := exec.LookPath("pbpaste"); err != nil {
			return false
		}
		return true
	case "linux":
		// Check if xclip or xsel are available
		if _, err := exec.LookPath("xclip"); err == nil {
			return true
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return true
		}
		return false
	default:
		return false
	}
}

// ChangeToken implements pasteboard.Source. Each call reads the clipboard;
// read failures leave the token unchanged.
func (c *CommandBoard) ChangeToken() int {
	text, err := c.readText()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		return c.token
	}
	if h := sha256.Sum256([]byte(text)); h != c.lastHash {
		c.lastHash = h
		c.lastText = text
		c.token++
	}
	return c.token
}

// Snapshot implements pasteboard.Source using the text seen by the last
// ChangeToken call.
func (c *CommandBoard) Snapshot() *pasteboard.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pasteboard.FromText(c.lastText)
}

// WriteText implements pasteboard.Writer
func (c *CommandBoard) WriteText(text string) error {
	switch runtime.GOOS {
	case "darwin":
		if _, err := c.run(bytes.NewReader([]byte(text)), "pbcopy"); err != nil {
			return fmt.Errorf("failed to run pbcopy: %w", err)
		}
		return nil
	case "linux":
		// Try xclip first
		if _, err := c.run(bytes.NewReader([]byte(text)), "xclip", "-selection", "clipboard"); err == nil {
			return nil
		}
		// Fall back to xsel
		if _, err := c.run(bytes.NewReader([]byte(text)), "xsel", "--clipboard", "--input"); err != nil {
			return fmt.Errorf("failed to write clipboard (tried xclip and xsel): %w", err)
		}
		return nil
	default:
		return fmt.Errorf("clipboard operations not supported on %s", runtime.GOOS)
	}
}

// WriteImage implements pasteboard.Writer; images are not supported.
func (c *CommandBoard) WriteImage(data []byte) error {
	return ErrImagesUnsupported
}

// readText reads the clipboard as text
func (c *CommandBoard) readText() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		out, err := c.run(nil, "pbpaste")
		if err != nil {
			return "", fmt.Errorf("failed to run pbpaste: %w", err)
		}
		return string(out), nil
	case "linux":
		// Try xclip first
		if out, err := c.run(nil, "xclip", "-selection", "clipboard", "-o"); err == nil {
			return string(out), nil
		}
		// Fall back to xsel
		out, err := c.run(nil, "xsel", "--clipboard", "--output")
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard (tried xclip and xsel): %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("clipboard operations not supported on %s", runtime.GOOS)
	}
}

// runCommand executes a command with stdin and returns its output
func runCommand(stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
