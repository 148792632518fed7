package tui

import (
	"strings"
	"testing"

	"github.com/yiblet/clipkeep/internal/store"
)

func longEntry(lines int) *Entry {
	var b strings.Builder
	for i := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("line")
	}
	return NewEntries([]*store.Item{testItem("long", b.String(), 0)})[0]
}

func TestNewRightPaneModel(t *testing.T) {
	model := NewRightPaneModel(50, 20)

	if model.Width != 50 || model.Height != 20 {
		t.Errorf("Expected 50x20, got %dx%d", model.Width, model.Height)
	}
	if model.ViewPos != 0 {
		t.Errorf("Expected view position 0, got %d", model.ViewPos)
	}
}

func TestRightPaneModel_Scroll(t *testing.T) {
	model := NewRightPaneModel(50, 20)

	model.Update(ScrollUpMsg{})
	if model.ViewPos != 0 {
		t.Errorf("Expected view position to stay at 0, got %d", model.ViewPos)
	}

	model.Update(ScrollDownMsg{MaxScroll: 1})
	model.Update(ScrollDownMsg{MaxScroll: 1})
	if model.ViewPos != 1 {
		t.Errorf("Expected view position to stop at 1, got %d", model.ViewPos)
	}

	model.Update(ScrollToBottomMsg{MaxScroll: 30})
	if model.ViewPos != 30 {
		t.Errorf("Expected view position 30, got %d", model.ViewPos)
	}
	model.Update(ScrollToTopMsg{})
	if model.ViewPos != 0 {
		t.Errorf("Expected view position 0, got %d", model.ViewPos)
	}
}

func TestRightPaneModel_Paging(t *testing.T) {
	// Height 20 leaves an 11 line body, so a page is 5 lines
	model := NewRightPaneModel(50, 20)

	model.Update(PageDownMsg{MaxScroll: 12})
	if model.ViewPos != 5 {
		t.Errorf("Expected view position 5, got %d", model.ViewPos)
	}
	model.Update(PageDownMsg{MaxScroll: 12})
	model.Update(PageDownMsg{MaxScroll: 12})
	if model.ViewPos != 12 {
		t.Errorf("Expected view position clamped to 12, got %d", model.ViewPos)
	}
	model.Update(PageUpMsg{})
	if model.ViewPos != 7 {
		t.Errorf("Expected view position 7, got %d", model.ViewPos)
	}
	model.Update(UpdateContentMsg{})
	if model.ViewPos != 0 {
		t.Errorf("Expected content change to reset view position, got %d", model.ViewPos)
	}
}

func TestGetMaxScroll(t *testing.T) {
	model := NewRightPaneModel(50, 20)

	if got := getMaxScroll(model, nil); got != 0 {
		t.Errorf("Expected 0 for no entry, got %d", got)
	}
	if got := getMaxScroll(model, longEntry(5)); got != 0 {
		t.Errorf("Expected 0 for short content, got %d", got)
	}
	if got := getMaxScroll(model, longEntry(30)); got != 30-11 {
		t.Errorf("Expected %d, got %d", 30-11, got)
	}
}

func TestRightPaneView(t *testing.T) {
	it := testItem("a", "first line\nsecond line", 0)
	it.SourceApp = "Terminal"
	it.UsageCount = 1200
	it.Tags = []string{"work", "todo"}
	entry := NewEntries([]*store.Item{it})[0]

	view := RightPaneView(NewRightPaneModel(60, 20), entry, false)
	for _, want := range []string{"first line", "second line", "Text", "from Terminal", "used 1,200", "#work #todo"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestRightPaneView_Scrolled(t *testing.T) {
	it := testItem("a", "top\nmiddle\nbottom", 0)
	entry := NewEntries([]*store.Item{it})[0]

	model := NewRightPaneModel(60, 20)
	model.ViewPos = 2
	view := RightPaneView(model, entry, true)
	if strings.Contains(view, "middle") {
		t.Errorf("Expected scrolled-off lines to be hidden")
	}
	if !strings.Contains(view, "bottom") {
		t.Errorf("Expected last line to be visible")
	}
}

func TestRightPaneView_Image(t *testing.T) {
	it := &store.Item{ID: "img", Type: store.TypeImage, Content: "iVBORw0KGgo=", FileSize: "8 B", Tags: []string{}}
	view := RightPaneView(NewRightPaneModel(60, 20), NewEntries([]*store.Item{it})[0], false)
	if !strings.Contains(view, "[image data, 8 B]") {
		t.Errorf("Expected image placeholder, got %q", view)
	}
	if strings.Contains(view, "iVBOR") {
		t.Errorf("Expected raw image data to be hidden")
	}
}

func TestRightPaneView_NoSelection(t *testing.T) {
	view := RightPaneView(NewRightPaneModel(50, 20), nil, false)
	if !strings.Contains(view, "No content selected") {
		t.Errorf("Expected placeholder, got %q", view)
	}
}
