package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ModalMsg represents messages that the modal component handles
type ModalMsg interface {
	isModalMsg()
}

// Modal message implementations
type ShowModalMsg struct {
	Title   string
	Content string
	Options string
}

func (ShowModalMsg) isModalMsg() {}

type HideModalMsg struct{}

func (HideModalMsg) isModalMsg() {}

// ModalModel holds the state for modal dialogs
type ModalModel struct {
	Active  bool
	Title   string
	Content string
	Options string
	Width   int
	Height  int
}

// NewModalModel creates a new modal model
func NewModalModel() ModalModel {
	return ModalModel{
		Active: false,
		Width:  60,
		Height: 10,
	}
}

// Update handles modal messages
func (m *ModalModel) Update(msg ModalMsg) error {
	switch msg := msg.(type) {
	case ShowModalMsg:
		m.Active = true
		m.Title = msg.Title
		m.Content = msg.Content
		m.Options = msg.Options
	case HideModalMsg:
		m.Active = false
		m.Title = ""
		m.Content = ""
		m.Options = ""
	}
	return nil
}

// ModalView renders the modal as a pure function
func ModalView(model ModalModel, backgroundView string, windowWidth, windowHeight int) string {
	if !model.Active {
		return backgroundView
	}

	// Build modal content
	modalContent := model.Title
	if model.Content != "" {
		modalContent += "\n\n" + model.Content
	}
	if model.Options != "" {
		modalContent += "\n\n" + model.Options
	}

	// Calculate modal dimensions
	modalWidth := model.Width
	modalHeight := model.Height

	// Ensure modal fits within window
	if modalWidth > windowWidth-4 {
		modalWidth = windowWidth - 4
	}
	if modalHeight > windowHeight-4 {
		modalHeight = windowHeight - 4
	}

	// Create modal style with border
	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("9")). // Bright red border
		Padding(1, 2).
		Width(modalWidth).
		Height(modalHeight).
		Align(lipgloss.Center, lipgloss.Center)

	modal := modalStyle.Render(modalContent)

	// Split background and modal into lines
	backgroundLines := strings.Split(backgroundView, "\n")
	modalLines := strings.Split(modal, "\n")

	// Calculate position to center the modal
	modalStartY := (windowHeight - len(modalLines)) / 2
	modalStartX := (windowWidth - lipgloss.Width(modalLines[0])) / 2

	if modalStartY < 0 {
		modalStartY = 0
	}
	if modalStartX < 0 {
		modalStartX = 0
	}

	// Overlay modal on background
	var result strings.Builder

	for i := 0; i < len(backgroundLines); i++ {
		if i > 0 {
			result.WriteString("\n")
		}

		// Check if this line should show the modal
		modalLineIdx := i - modalStartY
		if modalLineIdx >= 0 && modalLineIdx < len(modalLines) {
			// This line shows the modal overlaid on the background
			bgLine := backgroundLines[i]
			bgWidth := lipgloss.Width(bgLine)
			modalLine := modalLines[modalLineIdx]
			modalWidth := lipgloss.Width(modalLine)

			// Show background before modal (if modalStartX > 0)
			if modalStartX > 0 && bgWidth > 0 {
				result.WriteString(ansi.Truncate(bgLine, modalStartX, ""))
			}

			// Show the modal
			result.WriteString(modalLine)

			// Show background after modal or pad to maintain line width
			endX := modalStartX + modalWidth
			if endX < bgWidth {
				// There's background content after the modal
				result.WriteString(ansi.TruncateLeft(bgLine, endX, ""))
			}
		} else {
			// No modal on this line, show background as-is
			result.WriteString(backgroundLines[i])
		}
	}

	return result.String()
}

// ShowDeleteConfirmation creates a delete confirmation modal
func ShowDeleteConfirmation(title string) ShowModalMsg {
	return ShowModalMsg{
		Title:   "Delete Item?",
		Content: fmt.Sprintf("Item: %s\n\nAre you sure you want to delete this item?", clip(title, 48)),
		Options: "[Y] Yes, delete    [N] No, cancel",
	}
}

// ShowClearConfirmation creates the modal asking to clear non-favorites
func ShowClearConfirmation(count int) ShowModalMsg {
	return ShowModalMsg{
		Title:   "Clear History?",
		Content: fmt.Sprintf("%d items that are not favorites will be removed.", count),
		Options: "[Y] Yes, clear    [N] No, cancel",
	}
}

// ShowErrorModal reports a failed action
func ShowErrorModal(title string, err error) ShowModalMsg {
	return ShowModalMsg{
		Title:   title,
		Content: err.Error(),
		Options: "Press any key to continue",
	}
}
