package history

import "github.com/yiblet/clipkeep/internal/store"

// UsageStats is a read-only summary of the history.
type UsageStats struct {
	Total      int
	Favorites  int
	ByType     map[store.ItemType]int
	TotalUsage int

	// MostUsed is the first item in list order with the highest usage
	// count, or nil when nothing has been used yet.
	MostUsed *store.Item
}

// ComputeStats summarizes items. It does not retain or modify them.
func ComputeStats(items []*store.Item) UsageStats {
	stats := UsageStats{
		Total:  len(items),
		ByType: make(map[store.ItemType]int),
	}

	for _, it := range items {
		if it.IsFavorite {
			stats.Favorites++
		}
		stats.ByType[it.Type]++
		stats.TotalUsage += it.UsageCount

		if it.UsageCount > 0 && (stats.MostUsed == nil || it.UsageCount > stats.MostUsed.UsageCount) {
			stats.MostUsed = it
		}
	}

	if stats.MostUsed != nil {
		stats.MostUsed = stats.MostUsed.Clone()
	}
	return stats
}
