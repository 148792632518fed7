package history

import "sync"

// EventKind says what kind of change an Event reports.
type EventKind int

const (
	// EventInserted is sent when a captured item lands at the head.
	EventInserted EventKind = iota
	// EventUpdated is sent when an item's metadata changes.
	EventUpdated
	// EventRemoved is sent when items are removed, including eviction.
	EventRemoved
	// EventCleared is sent by ClearAll and ClearKeepingFavorites.
	EventCleared
	// EventImported is sent after a successful import.
	EventImported
	// EventReloaded is sent when the list was replaced by the one another
	// process saved.
	EventReloaded
)

func (k EventKind) String() string {
	switch k {
	case EventInserted:
		return "inserted"
	case EventUpdated:
		return "updated"
	case EventRemoved:
		return "removed"
	case EventCleared:
		return "cleared"
	case EventImported:
		return "imported"
	case EventReloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// Event notifies a subscriber that the list changed. Subscribers read the
// new state with Items.
type Event struct {
	Kind EventKind
	// ID is the affected item, empty for bulk changes.
	ID string
	// Len is the list length after the change.
	Len int
}

const subscriberBuffer = 32

// broadcaster fans events out to subscribers without blocking.
type broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func (b *broadcaster) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]chan Event)
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// publish delivers ev to every subscriber with room in its buffer.
func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
