package history

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yiblet/clipkeep/internal/classify"
	"github.com/yiblet/clipkeep/internal/pasteboard/mockboard"
	"github.com/yiblet/clipkeep/internal/store"
	"github.com/yiblet/clipkeep/internal/store/jsonstore"
	"github.com/yiblet/clipkeep/internal/store/memstore"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func textItem(id, content string, sec int) *store.Item {
	return &store.Item{
		ID:        id,
		Content:   content,
		Type:      store.TypeText,
		Timestamp: baseTime.Add(time.Duration(sec) * time.Second),
		Tags:      []string{},
	}
}

type fixture struct {
	m     *Manager
	store *memstore.MemoryStore
	board *mockboard.MockBoard
	now   time.Time
}

func newFixture(t *testing.T, settings Settings, initial ...*store.Item) *fixture {
	t.Helper()

	f := &fixture{
		store: memstore.NewMemoryStore(initial...),
		board: mockboard.New(),
		now:   baseTime.Add(time.Hour),
	}
	seq := 0
	clock := func() time.Time { return f.now }
	c := classify.New(
		classify.WithClock(clock),
		classify.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("gen-%d", seq)
		}),
	)
	f.m = NewManager(f.store, f.board, settings,
		WithClassifier(c),
		WithClock(clock),
		WithLogger(quietLogger()),
	)
	t.Cleanup(func() { f.m.Close() })
	return f
}

func contents(items []*store.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Content
	}
	return out
}

func assertContents(t *testing.T, items []*store.Item, want ...string) {
	t.Helper()
	got := contents(items)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTryAdd_EvictionScenario(t *testing.T) {
	f := newFixture(t, Settings{MaxHistoryCount: 3})

	for i, c := range []string{"A", "B", "C", "D"} {
		if !f.m.TryAdd(textItem(c, c, i+1)) {
			t.Fatalf("TryAdd(%s) rejected", c)
		}
	}

	assertContents(t, f.m.Items(), "D", "C", "B")
}

func TestTryAdd_EvictsOldest(t *testing.T) {
	f := newFixture(t, Settings{MaxHistoryCount: 10})

	for i := 0; i < 13; i++ {
		f.m.TryAdd(textItem(fmt.Sprint(i), fmt.Sprintf("item %d", i), i))
	}

	items := f.m.Items()
	if len(items) != 10 {
		t.Fatalf("Expected 10 items, got %d", len(items))
	}
	if items[0].Content != "item 12" || items[9].Content != "item 3" {
		t.Errorf("Unexpected window: head %q tail %q", items[0].Content, items[9].Content)
	}
}

func TestTryAdd_RepeatSuppressed(t *testing.T) {
	f := newFixture(t, Settings{})

	if !f.m.TryAdd(textItem("1", "same", 1)) {
		t.Fatal("first insert rejected")
	}
	if f.m.TryAdd(textItem("2", "same", 2)) {
		t.Error("immediate repeat was inserted")
	}
	if f.m.Len() != 1 {
		t.Errorf("Expected 1 item, got %d", f.m.Len())
	}
}

func TestTryAdd_PromotesExisting(t *testing.T) {
	f := newFixture(t, Settings{})

	f.m.TryAdd(textItem("1", "A", 1))
	f.m.TryAdd(textItem("2", "B", 2))
	if !f.m.TryAdd(textItem("3", "A", 3)) {
		t.Fatal("re-copy of older content rejected")
	}

	items := f.m.Items()
	assertContents(t, items, "A", "B")
	if items[0].ID != "3" {
		t.Errorf("Expected promoted item to be the new candidate, got id %s", items[0].ID)
	}
}

func TestTryAdd_SameContentDifferentType(t *testing.T) {
	f := newFixture(t, Settings{})

	f.m.TryAdd(textItem("1", "x", 1))
	code := textItem("2", "x", 2)
	code.Type = store.TypeCode
	if !f.m.TryAdd(code) {
		t.Error("Expected item with different type to be inserted")
	}
	if f.m.Len() != 2 {
		t.Errorf("Expected 2 items, got %d", f.m.Len())
	}
}

func TestTryAdd_PasswordGate(t *testing.T) {
	inputs := []string{"my PASSWORD is hunter2", "passwd: x", "PWD=abc", "密码123"}

	f := newFixture(t, Settings{ExcludePasswords: true})
	for i, in := range inputs {
		if f.m.TryAdd(textItem(fmt.Sprint(i), in, i)) {
			t.Errorf("TryAdd(%q) inserted with password gate on", in)
		}
	}
	if f.m.Len() != 0 {
		t.Errorf("Expected empty history, got %d", f.m.Len())
	}

	f.m.SetExcludePasswords(false)
	for i, in := range inputs {
		if !f.m.TryAdd(textItem(fmt.Sprint(i), in, i)) {
			t.Errorf("TryAdd(%q) rejected with password gate off", in)
		}
	}
}

func TestTryAdd_PasswordGateSkipsImages(t *testing.T) {
	f := newFixture(t, Settings{ExcludePasswords: true})

	img := &store.Item{ID: "img", Type: store.TypeImage, Content: "iVBORwpwd0KGgo=", Timestamp: baseTime}
	if !f.m.TryAdd(img) {
		t.Error("image rejected by password gate")
	}
}

func TestTryAdd_DisabledTypes(t *testing.T) {
	f := newFixture(t, Settings{EnabledTypes: []store.ItemType{store.TypeText}})

	link := textItem("1", "https://go.dev", 1)
	link.Type = store.TypeURL
	if f.m.TryAdd(link) {
		t.Error("disabled type was inserted")
	}
	if !f.m.TryAdd(textItem("2", "words", 2)) {
		t.Error("enabled type rejected")
	}

	f.m.SetEnabledTypes(nil)
	if !f.m.TryAdd(link) {
		t.Error("Expected all types enabled after SetEnabledTypes(nil)")
	}
}

func TestTryAdd_Nil(t *testing.T) {
	f := newFixture(t, Settings{})
	if f.m.TryAdd(nil) {
		t.Error("nil candidate inserted")
	}
}

func TestPoll_OncePerChange(t *testing.T) {
	f := newFixture(t, Settings{})

	if f.m.Poll() {
		t.Error("Poll inserted with no change")
	}

	f.board.SetText("https://example.com")
	if !f.m.Poll() {
		t.Fatal("Poll missed a change")
	}
	if f.m.Poll() {
		t.Error("Poll processed the same change twice")
	}

	items := f.m.Items()
	if len(items) != 1 || items[0].Type != store.TypeURL {
		t.Fatalf("Expected one url item, got %+v", items)
	}
	if items[0].ID != "gen-1" || !items[0].Timestamp.Equal(f.now) {
		t.Errorf("Unexpected id/timestamp: %s %v", items[0].ID, items[0].Timestamp)
	}

	// Same content copied again bumps the token but is a repeat.
	f.board.SetText("https://example.com")
	if f.m.Poll() {
		t.Error("Repeat copy was inserted")
	}

	f.board.Clear()
	if f.m.Poll() {
		t.Error("Empty pasteboard produced an item")
	}

	f.board.SetText("next")
	if !f.m.Poll() {
		t.Error("Poll missed a change after clear")
	}
	assertContents(t, f.m.Items(), "next", "https://example.com")
}

func TestPoll_IgnoresContentPresentAtStart(t *testing.T) {
	st := memstore.NewMemoryStore()
	board := mockboard.New()
	board.SetText("already there")

	m := NewManager(st, board, Settings{}, WithLogger(quietLogger()))
	defer m.Close()

	if m.Poll() {
		t.Error("Content present at start was captured")
	}
}

func TestPoll_NoSource(t *testing.T) {
	m := NewManager(memstore.NewMemoryStore(), nil, Settings{}, WithLogger(quietLogger()))
	defer m.Close()

	if m.Poll() {
		t.Error("Poll without source reported an insert")
	}
	if err := m.Run(context.Background(), time.Millisecond); err == nil {
		t.Error("Expected Run without source to fail")
	}
}

func TestRun_CapturesUntilCanceled(t *testing.T) {
	f := newFixture(t, Settings{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.m.Run(ctx, time.Millisecond) }()

	f.board.SetText("from run")
	deadline := time.Now().Add(5 * time.Second)
	for f.m.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
	assertContents(t, f.m.Items(), "from run")
}

func TestRun_AutoCleanup(t *testing.T) {
	old := textItem("old", "old", 0)
	f := newFixture(t, Settings{AutoCleanup: true, CleanupAfter: time.Minute}, old)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.m.Run(ctx, time.Hour)

	if f.m.Len() != 0 {
		t.Errorf("Expected old item pruned at start, got %d items", f.m.Len())
	}
}

func TestMutations(t *testing.T) {
	f := newFixture(t, Settings{}, textItem("1", "one", 1))

	if err := f.m.ToggleFavorite("1"); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if err := f.m.AddTag("1", "work"); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	f.m.AddTag("1", "work")
	f.m.AddTag("1", "  ")
	f.m.AddTag("1", "home")
	f.m.RemoveTag("1", "home")
	if err := f.m.SetCustomTitle("1", "  My title  "); err != nil {
		t.Fatalf("SetCustomTitle: %v", err)
	}
	if err := f.m.RecordUsage("1"); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	f.m.RecordUsage("1")

	it, err := f.m.Get("1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !it.IsFavorite {
		t.Error("Expected favorite")
	}
	if len(it.Tags) != 1 || it.Tags[0] != "work" {
		t.Errorf("Unexpected tags: %v", it.Tags)
	}
	if it.CustomTitle != "My title" {
		t.Errorf("CustomTitle = %q", it.CustomTitle)
	}
	if it.UsageCount != 2 || it.LastUsedDate == nil || !it.LastUsedDate.Equal(f.now) {
		t.Errorf("Unexpected usage: %d %v", it.UsageCount, it.LastUsedDate)
	}

	f.m.SetCustomTitle("1", "   ")
	f.m.ToggleFavorite("1")
	it, _ = f.m.Get("1")
	if it.CustomTitle != "" || it.IsFavorite {
		t.Errorf("Expected title cleared and favorite off, got %q %v", it.CustomTitle, it.IsFavorite)
	}

	if err := f.m.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	saved, _ := f.store.Load()
	if len(saved) != 1 || saved[0].UsageCount != 2 || len(saved[0].Tags) != 1 {
		t.Errorf("Mutations not persisted: %+v", saved[0])
	}
}

func TestMutations_UnknownID(t *testing.T) {
	f := newFixture(t, Settings{}, textItem("1", "one", 1))

	calls := map[string]func() error{
		"ToggleFavorite": func() error { return f.m.ToggleFavorite("nope") },
		"AddTag":         func() error { return f.m.AddTag("nope", "t") },
		"RemoveTag":      func() error { return f.m.RemoveTag("nope", "t") },
		"SetCustomTitle": func() error { return f.m.SetCustomTitle("nope", "t") },
		"RecordUsage":    func() error { return f.m.RecordUsage("nope") },
		"Remove":         func() error { return f.m.Remove("nope") },
		"Get": func() error {
			_, err := f.m.Get("nope")
			return err
		},
		"CopyToPasteboard": func() error { return f.m.CopyToPasteboard("nope", f.board) },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}

	f.m.Flush()
	if f.store.Saves() != 0 {
		t.Errorf("Expected no saves, got %d", f.store.Saves())
	}
}

func TestRemoveAndClear(t *testing.T) {
	fav := textItem("2", "two", 2)
	fav.IsFavorite = true
	f := newFixture(t, Settings{}, textItem("3", "three", 3), fav, textItem("1", "one", 1))

	if err := f.m.Remove("3"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	assertContents(t, f.m.Items(), "two", "one")

	f.m.ClearKeepingFavorites()
	assertContents(t, f.m.Items(), "two")

	f.m.ClearAll()
	if f.m.Len() != 0 {
		t.Errorf("Expected empty history, got %d", f.m.Len())
	}

	f.m.Flush()
	saved, _ := f.store.Load()
	if len(saved) != 0 {
		t.Errorf("Expected empty store, got %d", len(saved))
	}
}

func TestSetMaxHistoryCount(t *testing.T) {
	f := newFixture(t, Settings{MaxHistoryCount: 5})
	for i := 0; i < 5; i++ {
		f.m.TryAdd(textItem(fmt.Sprint(i), fmt.Sprint(i), i))
	}

	f.m.SetMaxHistoryCount(2)
	assertContents(t, f.m.Items(), "4", "3")
	if f.m.MaxHistoryCount() != 2 {
		t.Errorf("MaxHistoryCount = %d", f.m.MaxHistoryCount())
	}

	f.m.SetMaxHistoryCount(0)
	if f.m.MaxHistoryCount() != 2 {
		t.Error("Non-positive limit should be ignored")
	}

	f.m.Flush()
	saved, _ := f.store.Load()
	if len(saved) != 2 {
		t.Errorf("Expected truncation persisted, got %d", len(saved))
	}
}

func TestNewManager_TruncatesLoadedHistory(t *testing.T) {
	var initial []*store.Item
	for i := 0; i < 15; i++ {
		initial = append(initial, textItem(fmt.Sprint(i), fmt.Sprint(i), 100-i))
	}
	f := newFixture(t, Settings{MaxHistoryCount: 10}, initial...)

	if f.m.Len() != 10 {
		t.Errorf("Expected 10 items, got %d", f.m.Len())
	}
}

type brokenStore struct{ memstore.MemoryStore }

func (b *brokenStore) Load() ([]*store.Item, error) {
	return nil, errors.New("corrupt")
}

func TestNewManager_LoadFailureStartsEmpty(t *testing.T) {
	m := NewManager(&brokenStore{}, nil, Settings{}, WithLogger(quietLogger()))
	defer m.Close()

	if m.Len() != 0 {
		t.Errorf("Expected empty history, got %d", m.Len())
	}
	if !m.TryAdd(textItem("1", "still works", 1)) {
		t.Error("TryAdd failed after load failure")
	}
}

func TestNewManager_CorruptJSONFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{garbage"), 0600); err != nil {
		t.Fatal(err)
	}

	m := NewManager(jsonstore.New(path), nil, Settings{}, WithLogger(quietLogger()))
	defer m.Close()

	if m.Len() != 0 {
		t.Errorf("Expected empty history, got %d", m.Len())
	}
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	f := newFixture(t, Settings{})
	f.store.FailSaves(errors.New("disk full"))

	if !f.m.TryAdd(textItem("1", "kept", 1)) {
		t.Fatal("TryAdd rejected")
	}
	if err := f.m.Flush(); err == nil {
		t.Error("Expected Flush to report the failed save")
	}
	assertContents(t, f.m.Items(), "kept")

	f.store.FailSaves(nil)
	f.m.TryAdd(textItem("2", "later", 2))
	if err := f.m.Flush(); err != nil {
		t.Fatalf("Flush after recovery: %v", err)
	}
	saved, _ := f.store.Load()
	assertContents(t, saved, "later", "kept")
}

func TestPersistLatestSnapshot(t *testing.T) {
	f := newFixture(t, Settings{MaxHistoryCount: 1000})

	for i := 0; i < 200; i++ {
		f.m.TryAdd(textItem(fmt.Sprint(i), fmt.Sprint(i), i))
	}
	if err := f.m.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	saved, _ := f.store.Load()
	if len(saved) != 200 || saved[0].Content != "199" {
		t.Errorf("Expected latest list saved, got %d items", len(saved))
	}
	if f.store.Saves() > 200 {
		t.Errorf("Expected at most one save per change, got %d", f.store.Saves())
	}
}

func TestClose_SavesPending(t *testing.T) {
	st := memstore.NewMemoryStore()
	m := NewManager(st, nil, Settings{}, WithLogger(quietLogger()))

	m.TryAdd(textItem("1", "one", 1))
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	saved, _ := st.Load()
	assertContents(t, saved, "one")
}

func TestPrune(t *testing.T) {
	oldFav := textItem("fav", "old favorite", 0)
	oldFav.IsFavorite = true
	f := newFixture(t, Settings{},
		textItem("new", "new", 3590),
		oldFav,
		textItem("old", "old", 0),
	)

	if n := f.m.Prune(time.Minute); n != 1 {
		t.Errorf("Prune removed %d, want 1", n)
	}
	assertContents(t, f.m.Items(), "new", "old favorite")

	if n := f.m.Prune(0); n != 0 {
		t.Errorf("Prune(0) removed %d", n)
	}
}

func TestSearch(t *testing.T) {
	tagged := textItem("3", "meeting notes", 3)
	tagged.Tags = []string{"work"}
	f := newFixture(t, Settings{},
		tagged,
		textItem("2", "golang tips", 2),
		textItem("1", "grocery list", 1),
	)

	if got := f.m.Search(""); len(got) != 3 {
		t.Errorf("Empty query returned %d items", len(got))
	}

	got := f.m.Search("tips")
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Search(tips) = %v", contents(got))
	}

	got = f.m.Search("#work")
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("Search(#work) = %v", contents(got))
	}

	if got := f.m.Search("zzzz"); len(got) != 0 {
		t.Errorf("Search(zzzz) = %v", contents(got))
	}
}

func TestCopyToPasteboard_Text(t *testing.T) {
	f := newFixture(t, Settings{}, textItem("2", "second", 2), textItem("1", "first", 1))

	if err := f.m.CopyToPasteboard("1", f.board); err != nil {
		t.Fatalf("CopyToPasteboard: %v", err)
	}

	if snap := f.board.Snapshot(); snap == nil || snap.Text != "first" {
		t.Errorf("Pasteboard holds %+v", snap)
	}
	it, _ := f.m.Get("1")
	if it.UsageCount != 1 || it.LastUsedDate == nil {
		t.Errorf("Usage not recorded: %+v", it)
	}

	// The write is seen by the next poll but is not a new item.
	if f.m.Poll() {
		t.Error("Own write was captured")
	}
	assertContents(t, f.m.Items(), "second", "first")

	f.board.SetText("fresh")
	if !f.m.Poll() {
		t.Error("Change after own write was missed")
	}
}

func TestCopyToPasteboard_Image(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G'}
	img := &store.Item{ID: "img", Type: store.TypeImage, Content: base64.StdEncoding.EncodeToString(data), Timestamp: baseTime}
	bad := &store.Item{ID: "bad", Type: store.TypeImage, Content: "!!not base64!!", Timestamp: baseTime}
	f := newFixture(t, Settings{}, img, bad)

	if err := f.m.CopyToPasteboard("img", f.board); err != nil {
		t.Fatalf("CopyToPasteboard: %v", err)
	}
	snap := f.board.Snapshot()
	if snap == nil || string(snap.Image) != string(data) {
		t.Errorf("Pasteboard image = %v", snap)
	}

	if err := f.m.CopyToPasteboard("bad", f.board); err == nil {
		t.Error("Expected error for undecodable image")
	}
}

func TestCopyToPasteboard_WriteFailure(t *testing.T) {
	f := newFixture(t, Settings{}, textItem("1", "one", 1))
	f.board.FailWrites(errors.New("denied"))

	if err := f.m.CopyToPasteboard("1", f.board); err == nil {
		t.Fatal("Expected write error")
	}
	it, _ := f.m.Get("1")
	if it.UsageCount != 0 {
		t.Errorf("Usage recorded for failed write: %d", it.UsageCount)
	}
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t, Settings{})
	events, cancel := f.m.Subscribe()

	f.m.TryAdd(textItem("1", "one", 1))
	f.m.ToggleFavorite("1")
	f.m.ClearAll()

	want := []Event{
		{Kind: EventInserted, ID: "1", Len: 1},
		{Kind: EventUpdated, ID: "1", Len: 1},
		{Kind: EventCleared, Len: 0},
	}
	for _, w := range want {
		select {
		case got := <-events:
			if got != w {
				t.Errorf("got event %+v, want %+v", got, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", w.Kind)
		}
	}

	cancel()
	cancel()
	if _, ok := <-events; ok {
		t.Error("Expected channel closed after cancel")
	}
}

func TestSubscribe_FullBufferDoesNotBlock(t *testing.T) {
	f := newFixture(t, Settings{MaxHistoryCount: 1000})
	_, cancel := f.m.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer*3; i++ {
		f.m.TryAdd(textItem(fmt.Sprint(i), fmt.Sprint(i), i))
	}
	if f.m.Len() != subscriberBuffer*3 {
		t.Errorf("Expected %d items, got %d", subscriberBuffer*3, f.m.Len())
	}
}

func TestItemsAreCopies(t *testing.T) {
	f := newFixture(t, Settings{}, textItem("1", "one", 1))

	items := f.m.Items()
	items[0].Content = "changed"
	items[0].Tags = append(items[0].Tags, "x")

	it, _ := f.m.Get("1")
	if it.Content != "one" || len(it.Tags) != 0 {
		t.Errorf("Internal state was aliased: %+v", it)
	}
}

func TestCopyToPasteboard_OwnWriteForgottenOnNextChange(t *testing.T) {
	f := newFixture(t, Settings{}, textItem("2", "second", 2), textItem("1", "first", 1))

	if err := f.m.CopyToPasteboard("1", f.board); err != nil {
		t.Fatalf("CopyToPasteboard: %v", err)
	}
	// Cleared before the write was polled: the recapture yields nothing.
	f.board.Clear()
	if f.m.Poll() {
		t.Fatal("Empty pasteboard produced an item")
	}

	f.board.SetText("first")
	if !f.m.Poll() {
		t.Fatal("Later copy of the same content was skipped as an own write")
	}
	assertContents(t, f.m.Items(), "first", "second")
}

func TestNewManager_DropsInvalidLoadedItems(t *testing.T) {
	banana := textItem("2", "fruit", 2)
	banana.Type = "banana"
	f := newFixture(t, Settings{},
		textItem("1", "one", 3),
		banana,
		textItem("1", "repeat", 1),
		textItem("3", "three", 0),
	)

	items := f.m.Items()
	assertContents(t, items, "one", "three")
	if items[0].ID != "1" || items[1].ID != "3" {
		t.Errorf("Unexpected ids: %s %s", items[0].ID, items[1].ID)
	}
}

func TestSharedStore_ChangesFromAnotherManagerSurvive(t *testing.T) {
	st := memstore.NewMemoryStore(textItem("b", "b", 2), textItem("a", "a", 1))
	board := mockboard.New()
	watcher := NewManager(st, board, Settings{}, WithLogger(quietLogger()))
	defer watcher.Close()
	events, cancel := watcher.Subscribe()
	defer cancel()

	other := NewManager(st, nil, Settings{}, WithLogger(quietLogger()))
	if err := other.ToggleFavorite("a"); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if err := other.Remove("b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := other.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	board.SetText("c")
	if !watcher.Poll() {
		t.Fatal("Poll missed a change")
	}
	if err := watcher.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	saved, _ := st.Load()
	assertContents(t, saved, "c", "a")
	if !saved[1].IsFavorite {
		t.Error("Favorite set by the other manager was lost")
	}

	select {
	case ev := <-events:
		if ev.Kind != EventReloaded {
			t.Errorf("First event = %s, want reloaded", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reload event")
	}
}

func TestSharedStore_Sync(t *testing.T) {
	st := memstore.NewMemoryStore(textItem("a", "a", 1))
	m := NewManager(st, nil, Settings{}, WithLogger(quietLogger()))
	defer m.Close()

	if m.Sync() {
		t.Error("Sync reloaded an unchanged store")
	}

	other := NewManager(st, nil, Settings{}, WithLogger(quietLogger()))
	other.TryAdd(textItem("b", "b", 2))
	other.Close()

	if !m.Sync() {
		t.Fatal("Sync missed a save by another manager")
	}
	if m.Sync() {
		t.Error("Sync reloaded twice for one save")
	}
	assertContents(t, m.Items(), "b", "a")

	// Its own saves are not reloads.
	m.TryAdd(textItem("c", "c", 3))
	m.Flush()
	if m.Sync() {
		t.Error("Sync reloaded the manager's own save")
	}
}

func TestJSONFile_WatcherKeepsChangesFromAnotherProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), jsonstore.DefaultFileName)
	if err := jsonstore.WriteFile(path, []*store.Item{textItem("a", "a", 1)}); err != nil {
		t.Fatal(err)
	}

	board := mockboard.New()
	watcher := NewManager(jsonstore.New(path), board, Settings{}, WithLogger(quietLogger()))
	defer watcher.Close()

	cli := NewManager(jsonstore.New(path), nil, Settings{}, WithLogger(quietLogger()))
	if err := cli.ToggleFavorite("a"); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if err := cli.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	board.SetText("beta")
	if !watcher.Poll() {
		t.Fatal("Poll missed a change")
	}
	if err := watcher.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	saved, err := jsonstore.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	assertContents(t, saved, "beta", "a")
	if !saved[1].IsFavorite {
		t.Error("Favorite set by another process was reverted by the watcher's save")
	}
}
