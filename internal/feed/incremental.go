package feed

import (
	"sort"
	"sync"

	"brewline/internal/domain"
)

type EventType string

const (
	EventUpsert EventType = "upsert"
	EventDelete EventType = "delete"
)

// OrderEvent is one per-document change from a diff feed.
type OrderEvent struct {
	Type  EventType    `json:"type"`
	Order domain.Order `json:"order"`
}

// IncrementalSource folds per-document events into a maintained index
// instead of receiving the whole collection each time. Subscribers still get
// full snapshots: after any event sequence the delivered snapshot must be
// identical to what a full refresh of the same history would produce.
type IncrementalSource struct {
	mu      sync.Mutex
	index   map[string]domain.Order
	subs    map[int]Handler
	nextSub int
}

func NewIncrementalSource() *IncrementalSource {
	return &IncrementalSource{
		index: make(map[string]domain.Order),
		subs:  make(map[int]Handler),
	}
}

func (s *IncrementalSource) Subscribe(handler Handler) Unsubscribe {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = handler
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	handler(snapshot, nil)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Apply folds one event into the index and redelivers. Applying the same
// upsert twice converges on the same index, so at-least-once delivery from
// the transport is tolerated.
func (s *IncrementalSource) Apply(event OrderEvent) {
	s.mu.Lock()
	switch event.Type {
	case EventUpsert:
		s.index[event.Order.ID] = cloneOrder(event.Order)
	case EventDelete:
		delete(s.index, event.Order.ID)
	}
	snapshot := s.snapshotLocked()
	handlers := make([]Handler, 0, len(s.subs))
	for _, h := range s.subs {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	dispatch(snapshot, handlers)
}

func (s *IncrementalSource) snapshotLocked() Snapshot {
	orders := make([]domain.Order, 0, len(s.index))
	for _, o := range s.index {
		orders = append(orders, cloneOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return Snapshot{Orders: orders}
}
