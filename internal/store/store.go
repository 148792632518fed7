// Package store defines the persistence layer for clipkeep's history.
// Backends persist the whole ordered item list at once; the history engine
// owns ordering, deduplication and retention.
package store

// HistoryStore persists the clipboard history list.
type HistoryStore interface {
	// Load returns the persisted list in stored order.
	// A store that has never been written returns an empty list and no error.
	Load() ([]*Item, error)

	// Save replaces the persisted list with items.
	Save(items []*Item) error

	// Close releases any resources (DB connections, file handles, etc.).
	Close() error
}

// Versioned is implemented by stores that another process may write while
// a manager holds the list in memory. Version changes whenever the
// persisted list is replaced.
type Versioned interface {
	Version() (string, error)
}
