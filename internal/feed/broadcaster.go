package feed

import (
	"sync"

	"brewline/internal/domain"
)

// Broadcaster adapts push-style refreshes into the SnapshotSource contract.
// The server-side usecases re-read the collection after every mutation and
// publish it here; the hub and any in-process subscribers receive it like
// any other snapshot delivery.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[int]Handler
	nextSub int
	last    Snapshot
	primed  bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[int]Handler),
	}
}

func (b *Broadcaster) Subscribe(handler Handler) Unsubscribe {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = handler
	last, primed := b.last, b.primed
	b.mu.Unlock()

	if primed {
		handler(last, nil)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func (b *Broadcaster) Publish(orders []domain.Order) {
	snapshot := Snapshot{Orders: orders}

	b.mu.Lock()
	b.last = snapshot
	b.primed = true
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	dispatch(snapshot, handlers)
}
