package history

import (
	"log/slog"
	"sync"

	"github.com/yiblet/clipkeep/internal/store"
)

// persister saves list snapshots on its own goroutine. Only the latest
// snapshot is kept, so a burst of changes costs one write and a slow save
// never writes an older list after a newer one.
type persister struct {
	store  store.HistoryStore
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []*store.Item
	hasNext bool
	seq     uint64 // snapshots scheduled
	saved   uint64 // snapshots written or superseded
	lastErr error
	closed  bool
	// version is the store version this process last wrote or read.
	version string

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newPersister(s store.HistoryStore, logger *slog.Logger) *persister {
	p := &persister{
		store:  s,
		logger: logger,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	go p.loop()
	return p
}

// schedule queues items for saving. items must not be modified afterwards.
func (p *persister) schedule(items []*store.Item) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("history save dropped after close", "items", len(items))
		return
	}
	p.pending = items
	p.hasNext = true
	p.seq++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) loop() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.saveLatest()
		case <-p.stop:
			p.saveLatest()
			return
		}
	}
}

func (p *persister) saveLatest() {
	p.mu.Lock()
	if !p.hasNext {
		p.mu.Unlock()
		return
	}
	items, target := p.pending, p.seq
	p.pending, p.hasNext = nil, false
	p.mu.Unlock()

	err := p.store.Save(items)
	version, versioned := "", false
	if err != nil {
		p.logger.Error("failed to save history", "err", err, "items", len(items))
	} else {
		p.logger.Debug("history saved", "items", len(items))
		version, versioned = p.storeVersion()
	}

	p.mu.Lock()
	p.saved = target
	p.lastErr = err
	if versioned {
		p.version = version
	}
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *persister) storeVersion() (string, bool) {
	vs, ok := p.store.(store.Versioned)
	if !ok {
		return "", false
	}
	v, err := vs.Version()
	if err != nil {
		p.logger.Warn("failed to read history version", "err", err)
		return "", false
	}
	return v, true
}

// state returns the last known store version, and whether every scheduled
// snapshot has been written successfully.
func (p *persister) state() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version, !p.hasNext && p.saved == p.seq && p.lastErr == nil
}

func (p *persister) setVersion(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.version = v
}

// flush waits until every snapshot scheduled before the call is written
// and returns the result of the last save.
func (p *persister) flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	target := p.seq
	for p.saved < target && !p.closed {
		p.cond.Wait()
	}
	return p.lastErr
}

// close writes any pending snapshot and stops the goroutine.
func (p *persister) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return p.lastErr
	}
	p.mu.Unlock()

	close(p.stop)
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cond.Broadcast()
	return p.lastErr
}
