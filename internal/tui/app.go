// Package tui is the interactive history browser.
package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yiblet/clipkeep/internal/history"
	"github.com/yiblet/clipkeep/internal/pasteboard"
	"github.com/yiblet/clipkeep/internal/store"
)

// History is the part of the history manager the browser drives.
type History interface {
	Search(query string) []*store.Item
	ToggleFavorite(id string) error
	Remove(id string) error
	ClearKeepingFavorites()
	CopyToPasteboard(id string, w pasteboard.Writer) error
	Subscribe() (<-chan history.Event, func())
	// Sync picks up changes saved by another process, such as a running
	// watcher.
	Sync() bool
}

// syncInterval is how often the browser checks the store for changes made
// by other processes.
const syncInterval = time.Second

// PaneType represents which pane is focused
type PaneType int

const (
	LeftPane PaneType = iota
	RightPane
)

// UIMode represents the current modal state of the application
type UIMode int

const (
	NormalMode UIMode = iota
	SearchMode
	HelpMode
	DeleteMode
	ClearMode
	ErrorMode
)

type flashExpiredMsg struct{}

type syncTickMsg struct{}

// historyChangedMsg is delivered for every event the manager publishes.
type historyChangedMsg struct {
	Event history.Event
}

// AppModel orchestrates all sub-models
type AppModel struct {
	Width       int
	Height      int
	LeftWidth   int
	RightWidth  int
	ActivePane  PaneType
	CurrentMode UIMode

	// Sub-models
	LeftPane  LeftPaneModel
	RightPane RightPaneModel
	Search    SearchModel
	Modal     ModalModel
	Entries   []*Entry

	// Flash message for temporary notifications
	FlashMessage string
	FlashExpiry  time.Time

	history     History
	board       pasteboard.Writer
	events      <-chan history.Event
	unsubscribe func()
	now         func() time.Time
}

// NewAppModel creates a browser over h. Copies are written to board.
func NewAppModel(h History, board pasteboard.Writer) *AppModel {
	// Default dimensions that will be properly set on first resize
	defaultWidth := 120
	defaultHeight := 24
	defaultLeftWidth := 45
	defaultRightWidth := 73

	events, unsubscribe := h.Subscribe()
	a := &AppModel{
		Width:       defaultWidth,
		Height:      defaultHeight,
		LeftWidth:   defaultLeftWidth,
		RightWidth:  defaultRightWidth,
		ActivePane:  LeftPane,
		CurrentMode: NormalMode,
		LeftPane:    NewLeftPaneModel(defaultLeftWidth, defaultHeight),
		RightPane:   NewRightPaneModel(defaultRightWidth, defaultHeight),
		Search:      NewSearchModel(),
		Modal:       NewModalModel(),
		history:     h,
		board:       board,
		events:      events,
		unsubscribe: unsubscribe,
		now:         time.Now,
	}
	a.refresh()
	return a
}

// Close ends the history subscription.
func (a *AppModel) Close() {
	a.unsubscribe()
}

// Init starts listening for history changes
func (a *AppModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(a.events), syncAfter(syncInterval))
}

func syncAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return syncTickMsg{}
	})
}

func waitForEvent(events <-chan history.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return historyChangedMsg{Event: ev}
	}
}

// Update handles app-level messages and routes to appropriate sub-models
func (a *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.handleWindowResize(m)
		return a, nil
	case tea.KeyMsg:
		return a.handleKeyPress(m)
	case historyChangedMsg:
		a.refresh()
		return a, waitForEvent(a.events)
	case flashExpiredMsg:
		a.FlashMessage = ""
		a.FlashExpiry = time.Time{}
		return a, nil
	case syncTickMsg:
		// A reload arrives as a historyChangedMsg.
		a.history.Sync()
		return a, syncAfter(syncInterval)
	}

	return a, nil
}

// refresh reloads the visible entries, keeping the cursor on the same item
// when it is still listed.
func (a *AppModel) refresh() {
	var selectedID string
	if e := a.Selected(); e != nil {
		selectedID = e.Item.ID
	}

	a.Entries = NewEntries(a.history.Search(a.Search.Filter()))

	cursor := slices.IndexFunc(a.Entries, func(e *Entry) bool { return e.Item.ID == selectedID })
	if cursor < 0 {
		cursor = min(a.LeftPane.Cursor, len(a.Entries)-1)
	}
	if cursor != a.LeftPane.Cursor {
		a.RightPane.Update(UpdateContentMsg{})
	}
	a.LeftPane.Update(JumpToIndexMsg{Index: max(cursor, 0), MaxIndex: max(len(a.Entries)-1, 0)})
}

// Selected returns the entry under the cursor, or nil.
func (a *AppModel) Selected() *Entry {
	if a.LeftPane.Cursor < 0 || a.LeftPane.Cursor >= len(a.Entries) {
		return nil
	}
	return a.Entries[a.LeftPane.Cursor]
}

// handleWindowResize processes window resize events
func (a *AppModel) handleWindowResize(msg tea.WindowSizeMsg) {
	a.Width = max(msg.Width, 40)
	a.Height = max(msg.Height, 10)

	borderSpacing := 2 // Account for adjacent borders
	a.LeftWidth = min(max(a.Width*2/5, 20), 60)
	a.RightWidth = a.Width - a.LeftWidth - borderSpacing

	a.LeftPane.Update(ResizeLeftPaneMsg{Width: a.LeftWidth, Height: a.Height})
	a.RightPane.Update(ResizeRightPaneMsg{Width: a.RightWidth, Height: a.Height})
}

// handleKeyPress processes key press events using mode-first architecture
func (a *AppModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.CurrentMode {
	case SearchMode:
		return a.handleSearchModeKeys(msg)
	case HelpMode:
		if key == "z" || key == "?" || key == "esc" || key == "q" {
			a.CurrentMode = NormalMode
		}
		return a, nil
	case DeleteMode, ClearMode:
		return a.handleConfirmKeys(key)
	case ErrorMode:
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode
		return a, nil
	default:
		return a.handleNormalModeKeys(key)
	}
}

// handleSearchModeKeys edits the filter; the list follows as you type
func (a *AppModel) handleSearchModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.Search.Update(CancelSearchMsg{})
		a.CurrentMode = NormalMode
	case tea.KeyEnter:
		a.Search.Update(ExecuteSearchMsg{})
		a.CurrentMode = NormalMode
	case tea.KeyBackspace, tea.KeyCtrlH:
		runes := []rune(a.Search.Input)
		if len(runes) > 0 {
			a.Search.Update(UpdateSearchInputMsg{Input: string(runes[:len(runes)-1])})
		}
	case tea.KeySpace:
		a.Search.Update(UpdateSearchInputMsg{Input: a.Search.Input + " "})
	case tea.KeyRunes:
		a.Search.Update(UpdateSearchInputMsg{Input: a.Search.Input + string(msg.Runes)})
	default:
		return a, nil
	}

	a.refresh()
	return a, nil
}

// handleConfirmKeys answers the delete and clear modals
func (a *AppModel) handleConfirmKeys(key string) (tea.Model, tea.Cmd) {
	mode := a.CurrentMode
	switch key {
	case "y", "Y":
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode

		if mode == ClearMode {
			a.history.ClearKeepingFavorites()
			a.refresh()
			return a, a.setFlashMessage("Cleared history, favorites kept", 2*time.Second)
		}

		e := a.Selected()
		if e == nil {
			return a, nil
		}
		if err := a.history.Remove(e.Item.ID); err != nil {
			return a, a.showError("Delete Error", err)
		}
		a.refresh()
		return a, a.setFlashMessage("Item deleted", 2*time.Second)
	case "n", "N", "esc":
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode
	}
	return a, nil
}

// handleNormalModeKeys processes keys when in normal mode
func (a *AppModel) handleNormalModeKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "esc":
		if a.Search.Query != "" {
			a.Search.Update(ClearSearchMsg{})
			a.refresh()
			return a, nil
		}
		return a, tea.Quit
	case "z", "?":
		a.CurrentMode = HelpMode
		return a, nil
	case "/":
		a.Search.Update(StartSearchMsg{})
		a.CurrentMode = SearchMode
		return a, nil
	case "tab":
		if a.ActivePane == LeftPane {
			a.ActivePane = RightPane
		} else {
			a.ActivePane = LeftPane
		}
		return a, nil
	case "h", "left":
		a.ActivePane = LeftPane
		return a, nil
	case "l", "right":
		a.ActivePane = RightPane
		return a, nil
	case "enter", "c":
		return a, a.copySelected()
	case "f":
		return a, a.toggleFavorite()
	case "d":
		if e := a.Selected(); e != nil {
			a.CurrentMode = DeleteMode
			a.Modal.Update(ShowDeleteConfirmation(e.Title))
		}
		return a, nil
	case "D":
		if n := a.countNonFavorites(); n > 0 {
			a.CurrentMode = ClearMode
			a.Modal.Update(ShowClearConfirmation(n))
		}
		return a, nil
	}

	if a.ActivePane == LeftPane {
		a.handleLeftPaneKeys(key)
	} else {
		a.handleRightPaneKeys(key)
	}
	return a, nil
}

func (a *AppModel) handleLeftPaneKeys(key string) {
	maxIndex := len(a.Entries) - 1
	before := a.LeftPane.Cursor

	switch key {
	case "up", "k":
		a.LeftPane.Update(NavigateUpMsg{})
	case "down", "j":
		a.LeftPane.Update(NavigateDownMsg{MaxIndex: maxIndex})
	case "g", "home":
		a.LeftPane.Update(GoToTopMsg{})
	case "G", "end":
		a.LeftPane.Update(GoToBottomMsg{MaxIndex: maxIndex})
	}

	if a.LeftPane.Cursor != before {
		a.RightPane.Update(UpdateContentMsg{})
	}
}

func (a *AppModel) handleRightPaneKeys(key string) {
	maxScroll := getMaxScroll(a.RightPane, a.Selected())

	switch key {
	case "up", "k":
		a.RightPane.Update(ScrollUpMsg{})
	case "down", "j":
		a.RightPane.Update(ScrollDownMsg{MaxScroll: maxScroll})
	case "g", "home":
		a.RightPane.Update(ScrollToTopMsg{})
	case "G", "end":
		a.RightPane.Update(ScrollToBottomMsg{MaxScroll: maxScroll})
	case "ctrl+u", "pgup":
		a.RightPane.Update(PageUpMsg{})
	case "ctrl+d", "pgdown":
		a.RightPane.Update(PageDownMsg{MaxScroll: maxScroll})
	}
}

func (a *AppModel) countNonFavorites() int {
	n := 0
	for _, e := range a.Entries {
		if !e.Item.IsFavorite {
			n++
		}
	}
	return n
}

// copySelected writes the selected item back to the pasteboard
func (a *AppModel) copySelected() tea.Cmd {
	e := a.Selected()
	if e == nil {
		return a.setFlashMessage("No item selected", 2*time.Second)
	}
	if a.board == nil {
		return a.showError("Copy Error", fmt.Errorf("no pasteboard available"))
	}

	if err := a.history.CopyToPasteboard(e.Item.ID, a.board); err != nil {
		return a.showError("Copy Error", err)
	}
	a.refresh()
	return a.setFlashMessage(fmt.Sprintf("Copied %q", clip(e.Title, 40)), 2*time.Second)
}

func (a *AppModel) toggleFavorite() tea.Cmd {
	e := a.Selected()
	if e == nil {
		return nil
	}
	if err := a.history.ToggleFavorite(e.Item.ID); err != nil {
		return a.showError("Favorite Error", err)
	}
	a.refresh()
	return nil
}

func (a *AppModel) showError(title string, err error) tea.Cmd {
	a.CurrentMode = ErrorMode
	a.Modal.Update(ShowErrorModal(title, err))
	return nil
}

// setFlashMessage sets a flash message that will disappear after the specified duration
func (a *AppModel) setFlashMessage(message string, duration time.Duration) tea.Cmd {
	a.FlashMessage = message
	a.FlashExpiry = a.now().Add(duration)
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return flashExpiredMsg{}
	})
}

// View method for tea.Model compatibility
func (a *AppModel) View() string {
	return AppView(*a)
}

// AppView renders the complete application using pure functions
func AppView(model AppModel) string {
	if model.CurrentMode == HelpMode {
		return renderHelpView(model) + "\n\n" + renderStatusLine(model)
	}

	normalView := renderNormalView(model)
	if model.Modal.Active {
		return ModalView(model.Modal, normalView, model.Width, model.Height)
	}
	return normalView
}

// renderNormalView renders the dual-pane view
func renderNormalView(model AppModel) string {
	now := model.now()
	left := LeftPaneView(model.LeftPane, model.Entries, model.ActivePane == LeftPane, now)
	right := RightPaneView(model.RightPane, model.Selected(), model.ActivePane == RightPane)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + renderStatusLine(model)
}

// renderStatusLine renders the bottom status line (pure function)
func renderStatusLine(model AppModel) string {
	statusStyle := lipgloss.NewStyle().Width(model.Width)

	if model.FlashMessage != "" && model.now().Before(model.FlashExpiry) {
		return statusStyle.Foreground(lipgloss.Color("10")).Render(model.FlashMessage)
	}

	var status string
	switch {
	case model.CurrentMode == SearchMode:
		status = fmt.Sprintf("/%s (Enter to keep filter, Esc to cancel)", model.Search.Input)
	case model.CurrentMode == HelpMode:
		status = "Help - press z to return, q to quit"
	case model.Search.Query != "":
		status = fmt.Sprintf("Filter: %s - %d matches (Esc to clear)", model.Search.Query, len(model.Entries))
	default:
		status = "enter copy · f favorite · d delete · / search · z help · q quit"
	}
	return statusStyle.Render(status)
}

// renderHelpView renders the help content as a single pane (pure function)
func renderHelpView(model AppModel) string {
	var types []string
	for _, t := range store.AllTypes() {
		types = append(types, fmt.Sprintf("%s %s", t.Info().Icon, t.Info().DisplayName))
	}

	helpContent := `clipkeep - Clipboard History

NAVIGATION:
  j, ↓        Next item (right pane: scroll down)
  k, ↑        Previous item (right pane: scroll up)
  g, G        First / last item
  Tab         Toggle between list and content
  h, l        Focus list / content
  Ctrl+u/d    Page up / down in content

ACTIONS:
  Enter, c    Copy item to the clipboard
  f           Toggle favorite (★)
  d           Delete item
  D           Clear everything except favorites
  /           Fuzzy filter by title, tags and content
  Esc         Clear filter, or quit

TYPES:
  ` + strings.Join(types, "  ") + `

Press z again to return.`

	helpStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1).
		Width(model.Width - 4)

	return helpStyle.Render(helpContent)
}

// Run starts the browser and blocks until the user quits.
func Run(h History, board pasteboard.Writer) error {
	app := NewAppModel(h, board)
	defer app.Close()

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}
