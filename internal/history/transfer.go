package history

import (
	"fmt"
	"slices"

	"github.com/yiblet/clipkeep/internal/store"
	"github.com/yiblet/clipkeep/internal/store/jsonstore"
)

// TransferError reports a failed import or export.
type TransferError struct {
	Op   string // "import" or "export"
	Path string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// ImportSummary reports the outcome of an import.
type ImportSummary struct {
	// Added is the number of new items still in the history after the
	// import.
	Added int
	// Skipped is the number of items dropped because their id was already
	// present, or because they were not valid items.
	Skipped int
	// Evicted is the number of new items that were older than everything
	// the retention limit keeps.
	Evicted int
}

// ExportTo writes the history to path in the history file format. When
// ids are given only those items are written, in list order.
func (m *Manager) ExportTo(path string, ids ...string) error {
	m.mu.Lock()
	m.syncLocked()
	items := m.items
	if len(ids) > 0 {
		want := make(map[string]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
		items = make([]*store.Item, 0, len(ids))
		for _, it := range m.items {
			if want[it.ID] {
				items = append(items, it)
				delete(want, it.ID)
			}
		}
		for _, id := range ids {
			if want[id] {
				m.mu.Unlock()
				return &TransferError{Op: "export", Path: path, Err: fmt.Errorf("%w: %s", ErrNotFound, id)}
			}
		}
	}
	snapshot := cloneItems(items)
	m.mu.Unlock()

	if err := jsonstore.WriteFile(path, snapshot); err != nil {
		return &TransferError{Op: "export", Path: path, Err: err}
	}
	m.logger.Info("exported history", "path", path, "items", len(snapshot))
	return nil
}

// ImportFrom merges the items in the file at path into the history.
// Items whose id is already present, or repeated in the file, are
// dropped, as are items with an unknown type. The merged list is sorted
// newest first and truncated to the retention limit. On error the
// history is unchanged.
func (m *Manager) ImportFrom(path string) (ImportSummary, error) {
	candidates, err := jsonstore.ReadFile(path)
	if err != nil {
		return ImportSummary{}, &TransferError{Op: "import", Path: path, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()

	seen := make(map[string]bool, len(m.items)+len(candidates))
	for _, it := range m.items {
		seen[it.ID] = true
	}

	var summary ImportSummary
	added := make(map[string]bool, len(candidates))
	merged := slices.Clone(m.items)
	for _, c := range candidates {
		if c.Validate() != nil || seen[c.ID] {
			summary.Skipped++
			continue
		}
		seen[c.ID] = true
		added[c.ID] = true
		merged = append(merged, c)
	}

	slices.SortStableFunc(merged, func(a, b *store.Item) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	m.items = merged
	m.truncateLocked()

	for _, it := range m.items {
		if added[it.ID] {
			summary.Added++
		}
	}
	summary.Evicted = len(added) - summary.Added

	m.saveLocked()
	m.publishLocked(EventImported, "")
	m.logger.Info("imported history", "path", path,
		"added", summary.Added, "skipped", summary.Skipped, "evicted", summary.Evicted)
	return summary, nil
}
