// Package history owns the clipboard history list: it captures pasteboard
// changes, applies the insert policy, and persists every change.
package history

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/yiblet/clipkeep/internal/classify"
	"github.com/yiblet/clipkeep/internal/pasteboard"
	"github.com/yiblet/clipkeep/internal/store"
)

const (
	DefaultMaxHistoryCount = 100
	DefaultPollInterval    = 500 * time.Millisecond

	cleanupInterval = time.Hour
	searchTextLimit = 512
)

// ErrNotFound is returned by operations given an id that is not in the list.
var ErrNotFound = errors.New("item not found")

// passwordMarkers are matched case-insensitively against captured text.
var passwordMarkers = []string{"password", "密码", "passwd", "pwd"}

// Classifier turns a pasteboard snapshot into a candidate item.
type Classifier interface {
	Classify(snap *pasteboard.Snapshot) *store.Item
}

// Settings are the user-configurable inputs of the insert policy.
type Settings struct {
	MaxHistoryCount int
	// EnabledTypes limits which types are captured. Empty means all.
	EnabledTypes     []store.ItemType
	ExcludePasswords bool

	// AutoCleanup makes Run prune non-favorite items older than CleanupAfter.
	AutoCleanup  bool
	CleanupAfter time.Duration
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClassifier replaces the default classifier.
func WithClassifier(c Classifier) Option {
	return func(m *Manager) { m.classifier = c }
}

// WithClock sets the time source used for usage dates and pruning.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager is the clipboard history. All methods are safe for concurrent
// use; the whole list is guarded by one mutex, so every operation is a
// single read-modify-write transaction. When the store implements
// store.Versioned, each operation first reloads a list that another
// process saved in the meantime.
type Manager struct {
	classifier Classifier
	source     pasteboard.Source
	now        func() time.Time
	logger     *slog.Logger

	mu               sync.Mutex
	items            []*store.Item
	maxHistoryCount  int
	enabledTypes     map[store.ItemType]bool
	excludePasswords bool
	autoCleanup      bool
	cleanupAfter     time.Duration
	lastChangeToken  int
	// selfWrite is content this manager put on the pasteboard; its
	// recapture is not a new item.
	selfWrite *string

	persist   *persister
	events    broadcaster
	closeOnce sync.Once
	store     store.HistoryStore
}

// NewManager loads the history from s and returns a manager capturing from
// src. src may be nil for a manager that is only driven by direct calls.
// A store that fails to load is logged and the history starts empty.
func NewManager(s store.HistoryStore, src pasteboard.Source, settings Settings, opts ...Option) *Manager {
	m := &Manager{
		source: src,
		now:    time.Now,
		logger: slog.Default(),
		store:  s,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.classifier == nil {
		m.classifier = classify.New(classify.WithClock(m.now))
	}

	m.applySettings(settings)
	m.persist = newPersister(s, m.logger)

	if v, ok := m.persist.storeVersion(); ok {
		m.persist.setVersion(v)
	}
	items, err := s.Load()
	if err != nil {
		m.logger.Warn("failed to load history, starting empty", "err", err)
		items = nil
	}
	m.items = m.sanitize(items)
	if m.truncateLocked() > 0 {
		m.saveLocked()
	}

	if src != nil {
		m.lastChangeToken = src.ChangeToken()
	}
	return m
}

func (m *Manager) applySettings(s Settings) {
	m.maxHistoryCount = s.MaxHistoryCount
	if m.maxHistoryCount <= 0 {
		m.maxHistoryCount = DefaultMaxHistoryCount
	}
	m.enabledTypes = typeSet(s.EnabledTypes)
	m.excludePasswords = s.ExcludePasswords
	m.autoCleanup = s.AutoCleanup
	m.cleanupAfter = s.CleanupAfter
}

func typeSet(types []store.ItemType) map[store.ItemType]bool {
	if len(types) == 0 {
		types = store.AllTypes()
	}
	set := make(map[store.ItemType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// Run polls the pasteboard every interval until ctx is done. With auto
// cleanup enabled it also prunes old items at start and then hourly.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if m.source == nil {
		return errors.New("history manager has no pasteboard source")
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()

	m.autoPrune()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Poll()
		case <-cleanup.C:
			m.autoPrune()
		}
	}
}

func (m *Manager) autoPrune() {
	m.mu.Lock()
	enabled, after := m.autoCleanup, m.cleanupAfter
	m.mu.Unlock()

	if !enabled || after <= 0 {
		return
	}
	if n := m.Prune(after); n > 0 {
		m.logger.Info("pruned old history items", "removed", n, "older_than", after)
	}
}

// Poll checks the pasteboard once. A new change token triggers exactly
// one capture; an unchanged token does nothing. It reports whether an
// item was inserted.
func (m *Manager) Poll() bool {
	if m.source == nil {
		return false
	}

	token := m.source.ChangeToken()
	m.mu.Lock()
	if token == m.lastChangeToken {
		m.mu.Unlock()
		return false
	}
	m.lastChangeToken = token
	own := m.selfWrite
	m.selfWrite = nil
	m.mu.Unlock()

	candidate := m.classifier.Classify(m.source.Snapshot())
	if candidate == nil {
		return false
	}
	if own != nil && *own == candidate.Content {
		m.logger.Debug("skipped own pasteboard write", "type", candidate.Type)
		return false
	}
	return m.TryAdd(candidate)
}

// TryAdd inserts candidate at the head of the list unless the insert
// policy rejects it. Rejections are not errors.
func (m *Manager) TryAdd(candidate *store.Item) bool {
	if candidate == nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()

	if m.excludePasswords && candidate.Type != store.TypeImage && looksLikePassword(candidate.Content) {
		m.logger.Debug("skipped item matching password marker", "type", candidate.Type)
		return false
	}
	if !m.enabledTypes[candidate.Type] {
		m.logger.Debug("skipped disabled type", "type", candidate.Type)
		return false
	}
	if len(m.items) > 0 && m.items[0].ContentEqual(candidate) {
		return false
	}

	item := candidate.Clone()
	m.items = slices.DeleteFunc(m.items, item.ContentEqual)
	m.items = slices.Insert(m.items, 0, item)
	m.truncateLocked()

	m.saveLocked()
	m.publishLocked(EventInserted, item.ID)
	m.logger.Debug("captured item", "id", item.ID, "type", item.Type, "items", len(m.items))
	return true
}

func looksLikePassword(content string) bool {
	lower := strings.ToLower(content)
	for _, marker := range passwordMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ToggleFavorite flips the favorite flag of an item.
func (m *Manager) ToggleFavorite(id string) error {
	return m.update(id, func(it *store.Item) bool {
		it.IsFavorite = !it.IsFavorite
		return true
	})
}

// AddTag attaches tag to an item. Blank and already-present tags are
// ignored.
func (m *Manager) AddTag(id, tag string) error {
	tag = strings.TrimSpace(tag)
	return m.update(id, func(it *store.Item) bool {
		if tag == "" || it.HasTag(tag) {
			return false
		}
		it.Tags = append(it.Tags, tag)
		return true
	})
}

// RemoveTag detaches tag from an item.
func (m *Manager) RemoveTag(id, tag string) error {
	tag = strings.TrimSpace(tag)
	return m.update(id, func(it *store.Item) bool {
		n := len(it.Tags)
		it.Tags = slices.DeleteFunc(it.Tags, func(t string) bool { return t == tag })
		return len(it.Tags) != n
	})
}

// SetCustomTitle overrides an item's display title. A blank title clears
// the override.
func (m *Manager) SetCustomTitle(id, title string) error {
	title = strings.TrimSpace(title)
	return m.update(id, func(it *store.Item) bool {
		if it.CustomTitle == title {
			return false
		}
		it.CustomTitle = title
		return true
	})
}

// RecordUsage counts one copy of the item back to the pasteboard.
func (m *Manager) RecordUsage(id string) error {
	return m.update(id, func(it *store.Item) bool {
		now := m.now()
		it.UsageCount++
		it.LastUsedDate = &now
		return true
	})
}

// update applies fn to the item with id, persisting and notifying when
// fn reports a change.
func (m *Manager) update(id string, fn func(it *store.Item) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()

	i := m.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if fn(m.items[i]) {
		m.saveLocked()
		m.publishLocked(EventUpdated, id)
	}
	return nil
}

// Remove deletes one item.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()

	i := m.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.items = slices.Delete(m.items, i, i+1)
	m.saveLocked()
	m.publishLocked(EventRemoved, id)
	return nil
}

// ClearAll empties the history.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()

	m.items = []*store.Item{}
	m.saveLocked()
	m.publishLocked(EventCleared, "")
}

// ClearKeepingFavorites removes every item that is not a favorite.
func (m *Manager) ClearKeepingFavorites() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()

	m.items = slices.DeleteFunc(m.items, func(it *store.Item) bool { return !it.IsFavorite })
	m.saveLocked()
	m.publishLocked(EventCleared, "")
}

// Prune removes non-favorite items captured more than maxAge ago and
// returns how many were removed.
func (m *Manager) Prune(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()

	cutoff := m.now().Add(-maxAge)
	n := len(m.items)
	m.items = slices.DeleteFunc(m.items, func(it *store.Item) bool {
		return !it.IsFavorite && it.Timestamp.Before(cutoff)
	})
	removed := n - len(m.items)
	if removed > 0 {
		m.saveLocked()
		m.publishLocked(EventRemoved, "")
	}
	return removed
}

// SetMaxHistoryCount changes the retention limit, evicting the oldest
// items at once if the list is over it. Non-positive values are ignored.
func (m *Manager) SetMaxHistoryCount(n int) {
	if n <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()

	m.maxHistoryCount = n
	if m.truncateLocked() > 0 {
		m.saveLocked()
		m.publishLocked(EventRemoved, "")
	}
}

// MaxHistoryCount returns the retention limit.
func (m *Manager) MaxHistoryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxHistoryCount
}

// SetEnabledTypes limits capture to types. An empty list enables all.
func (m *Manager) SetEnabledTypes(types []store.ItemType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabledTypes = typeSet(types)
}

// SetExcludePasswords turns the password gate on or off.
func (m *Manager) SetExcludePasswords(exclude bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.excludePasswords = exclude
}

// Items returns a copy of the list, newest first.
func (m *Manager) Items() []*store.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()
	return cloneItems(m.items)
}

// Get returns a copy of the item with id.
func (m *Manager) Get(id string) (*store.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()

	i := m.indexLocked(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.items[i].Clone(), nil
}

// Len returns the number of items.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()
	return len(m.items)
}

// Stats summarizes the current list.
func (m *Manager) Stats() UsageStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()
	return ComputeStats(m.items)
}

// searchSource adapts items to fuzzy.Source.
type searchSource []*store.Item

func (s searchSource) Len() int { return len(s) }

func (s searchSource) String(i int) string {
	it := s[i]
	var b strings.Builder
	b.WriteString(DisplayTitle(it))
	for _, tag := range it.Tags {
		b.WriteString(" #")
		b.WriteString(tag)
	}
	if it.Type.IsTextual() {
		b.WriteByte(' ')
		content := it.Content
		if len(content) > searchTextLimit {
			content = content[:searchTextLimit]
		}
		b.WriteString(content)
	}
	return b.String()
}

// Search returns the items fuzzy-matching query over title, tags and
// content, best match first. An empty query returns every item.
func (m *Manager) Search(query string) []*store.Item {
	items := m.Items()
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	matches := fuzzy.FindFrom(query, searchSource(items))
	out := make([]*store.Item, len(matches))
	for i, match := range matches {
		out[i] = items[match.Index]
	}
	return out
}

// Subscribe returns a channel receiving an Event after every change, and
// a function that cancels the subscription and closes the channel. Events
// are dropped for a subscriber whose buffer is full.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	return m.events.subscribe()
}

// CopyToPasteboard writes an item to w and records the use. Images are
// written as image data, everything else as text.
func (m *Manager) CopyToPasteboard(id string, w pasteboard.Writer) error {
	it, err := m.Get(id)
	if err != nil {
		return err
	}

	var data []byte
	if it.Type == store.TypeImage {
		data, err = base64.StdEncoding.DecodeString(it.Content)
		if err != nil {
			return fmt.Errorf("failed to decode image: %w", err)
		}
	}

	m.mu.Lock()
	content := it.Content
	m.selfWrite = &content
	m.mu.Unlock()

	if it.Type == store.TypeImage {
		err = w.WriteImage(data)
	} else {
		err = w.WriteText(it.Content)
	}
	if err != nil {
		m.mu.Lock()
		m.selfWrite = nil
		m.mu.Unlock()
		return fmt.Errorf("failed to write to pasteboard: %w", err)
	}

	return m.RecordUsage(id)
}

// Flush waits until every change made so far is saved and returns the
// result of the last save.
func (m *Manager) Flush() error {
	return m.persist.flush()
}

// Close saves pending changes, ends subscriptions and closes the store.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		saveErr := m.persist.close()
		m.events.closeAll()
		if closeErr := m.store.Close(); closeErr != nil {
			err = fmt.Errorf("failed to close store: %w", closeErr)
			return
		}
		if saveErr != nil {
			err = fmt.Errorf("failed to save history: %w", saveErr)
		}
	})
	return err
}

// Sync reloads the list if another process saved a newer one to the store
// and reports whether it did.
func (m *Manager) Sync() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncLocked()
}

// syncLocked replaces the in-memory list with the stored one when the
// store version moved since this manager last saved or loaded. A list
// that is not yet saved is kept as is.
func (m *Manager) syncLocked() bool {
	vs, ok := m.store.(store.Versioned)
	if !ok {
		return false
	}
	known, settled := m.persist.state()
	if !settled {
		return false
	}
	current, err := vs.Version()
	if err != nil {
		m.logger.Warn("failed to read history version", "err", err)
		return false
	}
	if current == known {
		return false
	}

	// Recorded even on failure so an unreadable file is reported once and
	// then kept in memory, as on startup.
	m.persist.setVersion(current)
	items, err := m.store.Load()
	if err != nil {
		m.logger.Warn("failed to reload history, keeping the current list", "err", err)
		return false
	}
	m.items = m.sanitize(items)
	if m.truncateLocked() > 0 {
		m.saveLocked()
	}
	m.publishLocked(EventReloaded, "")
	m.logger.Debug("reloaded history saved by another process", "items", len(m.items))
	return true
}

// sanitize drops items that may not be in the list, such as unknown types
// or repeated ids, from a loaded list.
func (m *Manager) sanitize(items []*store.Item) []*store.Item {
	kept, dropped := store.Sanitize(items)
	if dropped > 0 {
		m.logger.Warn("dropped invalid history items", "dropped", dropped)
	}
	return kept
}

func (m *Manager) indexLocked(id string) int {
	return slices.IndexFunc(m.items, func(it *store.Item) bool { return it.ID == id })
}

// truncateLocked drops items past the retention limit and returns how many.
func (m *Manager) truncateLocked() int {
	if len(m.items) <= m.maxHistoryCount {
		return 0
	}
	n := len(m.items) - m.maxHistoryCount
	clear(m.items[m.maxHistoryCount:])
	m.items = m.items[:m.maxHistoryCount]
	return n
}

func (m *Manager) saveLocked() {
	m.persist.schedule(cloneItems(m.items))
}

func (m *Manager) publishLocked(kind EventKind, id string) {
	m.events.publish(Event{Kind: kind, ID: id, Len: len(m.items)})
}

func cloneItems(items []*store.Item) []*store.Item {
	out := make([]*store.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
