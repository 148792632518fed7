package main

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yiblet/clipkeep/internal/datadir"
	"github.com/yiblet/clipkeep/internal/history"
	"github.com/yiblet/clipkeep/internal/store/jsonstore"
	"github.com/yiblet/clipkeep/internal/tui"
)

// Renders the browser for the saved history without a terminal, so the
// layout can be checked at a few window sizes.
func main() {
	var args struct {
		History string `arg:"--history" help:"history directory (default ~/.config/clipkeep/history)"`
	}
	arg.MustParse(&args)

	fmt.Println("Testing browser layout")
	fmt.Println("======================")

	dir, err := datadir.NewWithHistoryPath(args.History)
	if err != nil {
		log.Fatalf("Error resolving history directory: %v", err)
	}

	mgr := history.NewManager(jsonstore.New(dir.Path(jsonstore.DefaultFileName)), nil, history.Settings{})
	defer mgr.Close()

	if mgr.Len() == 0 {
		fmt.Println("No items in history. Run 'clipkeep watch' and copy something first.")
		return
	}

	app := tui.NewAppModel(mgr, nil)
	defer app.Close()

	sizes := []tea.WindowSizeMsg{
		{Width: 80, Height: 20},
		{Width: 120, Height: 30},
		{Width: 160, Height: 40},
	}
	for _, size := range sizes {
		app.Update(size)
		fmt.Printf("\n--- %dx%d ---\n", size.Width, size.Height)
		fmt.Println(app.View())
	}
}
