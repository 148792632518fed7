package main

import (
	"fmt"
	"log"

	"github.com/yiblet/clipkeep/internal/history"
	"github.com/yiblet/clipkeep/internal/pasteboard/mockboard"
	"github.com/yiblet/clipkeep/internal/store/memstore"
)

func main() {
	fmt.Println("clipkeep History Demo")

	// In-memory store and a scripted clipboard, limited to 5 items
	board := mockboard.New()
	mgr := history.NewManager(memstore.NewMemoryStore(), board, history.Settings{
		MaxHistoryCount:  5,
		ExcludePasswords: true,
	})
	defer mgr.Close()

	copies := []string{
		"Hello, World! This is the first thing we copied.",
		"https://go.dev/doc/effective_go",
		"gopher@example.com",
		`{"name": "clipkeep", "items": [1, 2, 3]}`,
		"package main\n\nimport \"fmt\"\n\nfunc main() {\n    fmt.Println(\"Hello, Go!\")\n}",
		"my password is hunter2",
		"https://go.dev/doc/effective_go",
		"+1 (555) 010-9999",
	}

	fmt.Println("Copying to the clipboard:")
	for i, text := range copies {
		board.SetText(text)
		captured := mgr.Poll()
		fmt.Printf("%d. captured=%-5t %s\n", i+1, captured, history.TruncateTitle(history.SanitizeTitle(text), 50))
	}

	// Show final state
	items := mgr.Items()
	fmt.Printf("\nHistory (%d items, newest first):\n", len(items))
	for i, it := range items {
		fmt.Printf("%d. [%-5s] %s\n", i, it.Type, history.DisplayTitle(it))
	}

	// Favorite and copy back the oldest surviving item
	if len(items) > 0 {
		oldest := items[len(items)-1]
		if err := mgr.ToggleFavorite(oldest.ID); err != nil {
			log.Fatalf("Failed to favorite item: %v", err)
		}
		if err := mgr.CopyToPasteboard(oldest.ID, board); err != nil {
			log.Fatalf("Failed to copy item: %v", err)
		}
		fmt.Printf("\nCopied back: %s (recaptured=%t)\n", history.DisplayTitle(oldest), mgr.Poll())
	}

	stats := mgr.Stats()
	fmt.Printf("\nItems: %d, favorites: %d, uses: %d\n", stats.Total, stats.Favorites, stats.TotalUsage)
	for t, n := range stats.ByType {
		fmt.Printf("  %-10s %d\n", t.Info().DisplayName, n)
	}

	if err := mgr.Flush(); err != nil {
		log.Fatalf("Failed to save history: %v", err)
	}
	fmt.Printf("\nDemo complete! (Using in-memory store)\n")
}
