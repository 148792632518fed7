package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RightPaneMsg represents messages that the right pane component handles
type RightPaneMsg interface {
	isRightPaneMsg()
}

// Right pane message implementations
type ScrollUpMsg struct{}

func (ScrollUpMsg) isRightPaneMsg() {}

type ScrollDownMsg struct {
	MaxScroll int
}

func (ScrollDownMsg) isRightPaneMsg() {}

type ScrollToTopMsg struct{}

func (ScrollToTopMsg) isRightPaneMsg() {}

type ScrollToBottomMsg struct {
	MaxScroll int
}

func (ScrollToBottomMsg) isRightPaneMsg() {}

type PageUpMsg struct{}

func (PageUpMsg) isRightPaneMsg() {}

type PageDownMsg struct {
	MaxScroll int
}

func (PageDownMsg) isRightPaneMsg() {}

type ResizeRightPaneMsg struct {
	Width  int
	Height int
}

func (ResizeRightPaneMsg) isRightPaneMsg() {}

type UpdateContentMsg struct{}

func (UpdateContentMsg) isRightPaneMsg() {}

// RightPaneModel holds the state for the right pane (content viewer)
type RightPaneModel struct {
	Width   int // Pane width
	Height  int // Pane height
	ViewPos int // Current view position (line number)
}

// NewRightPaneModel creates a new right pane model with default values
func NewRightPaneModel(width, height int) RightPaneModel {
	return RightPaneModel{
		Width:  width,
		Height: height,
	}
}

// Update applies a right pane message
func (r *RightPaneModel) Update(msg RightPaneMsg) {
	switch m := msg.(type) {
	case ScrollUpMsg:
		if r.ViewPos > 0 {
			r.ViewPos--
		}
	case ScrollDownMsg:
		if r.ViewPos < m.MaxScroll {
			r.ViewPos++
		}
	case ScrollToTopMsg:
		r.ViewPos = 0
	case ScrollToBottomMsg:
		r.ViewPos = m.MaxScroll
	case PageUpMsg:
		r.ViewPos = max(r.ViewPos-r.pageSize(), 0)
	case PageDownMsg:
		r.ViewPos = min(r.ViewPos+r.pageSize(), m.MaxScroll)
	case ResizeRightPaneMsg:
		r.Width = m.Width
		r.Height = m.Height
	case UpdateContentMsg:
		r.ViewPos = 0 // Reset view position when content changes
	}
}

// pageSize is half the visible body height.
func (r *RightPaneModel) pageSize() int {
	return max(r.bodyHeight()/2, 1)
}

// bodyHeight is the number of content lines below the metadata header.
func (r *RightPaneModel) bodyHeight() int {
	return max(r.Height-9, 1)
}

func (r *RightPaneModel) bodyWidth() int {
	return max(r.Width-6, 1)
}

// RightPaneView renders the right pane as a pure function
func RightPaneView(model RightPaneModel, entry *Entry, focused bool) string {
	borderColor := "62"
	if focused {
		borderColor = "205"
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1).
		Width(model.Width - 2).
		Height(model.Height - 4)

	var b strings.Builder
	if entry == nil {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Content") + "\n\n")
		b.WriteString("No content selected")
		return style.Render(b.String())
	}

	it := entry.Item
	title := clip(entry.Title, model.bodyWidth()-2)
	if focused {
		title = "● " + title
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title) + "\n")

	meta := []string{it.Type.Info().DisplayName, humanize.Time(it.Timestamp)}
	if it.SourceApp != "" {
		meta = append(meta, "from "+it.SourceApp)
	}
	if it.FileSize != "" {
		meta = append(meta, it.FileSize)
	}
	if it.UsageCount > 0 {
		meta = append(meta, fmt.Sprintf("used %s", humanize.Comma(int64(it.UsageCount))))
	}
	faint := lipgloss.NewStyle().Faint(true)
	b.WriteString(faint.Render(clip(strings.Join(meta, " · "), model.bodyWidth())) + "\n")
	if len(it.Tags) > 0 {
		b.WriteString(faint.Render(clip("#"+strings.Join(it.Tags, " #"), model.bodyWidth())))
	}
	b.WriteString("\n\n")

	entry.UpdateWrappedLines(model.bodyWidth())
	start := min(model.ViewPos, len(entry.Lines))
	end := min(start+model.bodyHeight(), len(entry.Lines))
	b.WriteString(strings.Join(entry.Lines[start:end], "\n"))

	return style.Render(b.String())
}

// getMaxScroll returns the maximum scroll position (pure function)
func getMaxScroll(model RightPaneModel, entry *Entry) int {
	if entry == nil {
		return 0
	}
	entry.UpdateWrappedLines(model.bodyWidth())
	return max(len(entry.Lines)-model.bodyHeight(), 0)
}
