package feed

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"brewline/internal/domain"
	"brewline/internal/errors"
)

// MemorySource is an in-process orders collection implementing both sides of
// the feed contract: Mutator for writers and SnapshotSource for readers.
// Every mutation rebroadcasts the complete collection, the full-refresh
// delivery model.
type MemorySource struct {
	mu        sync.Mutex
	orders    map[string]domain.Order
	subs      map[int]Handler
	nextSub   int
	now       func() time.Time
	lastStamp time.Time
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		orders: make(map[string]domain.Order),
		subs:   make(map[int]Handler),
		now:    time.Now,
	}
}

// SetClock overrides the timestamp source. Test hook.
func (s *MemorySource) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemorySource) Subscribe(handler Handler) Unsubscribe {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = handler
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	// Initial delivery happens on subscribe, before any mutation.
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

func (s *MemorySource) CreateOrder(ctx context.Context, order domain.Order) error {
	if order.ID == "" {
		return errors.NewValidationError("order id is required")
	}

	s.mu.Lock()
	if _, exists := s.orders[order.ID]; exists {
		// Same client-generated key means the same checkout attempt; a
		// retry must not become a second document.
		s.mu.Unlock()
		return nil
	}
	order.CreatedAt = s.stampLocked()
	s.orders[order.ID] = cloneOrder(order)
	snapshot, handlers := s.deliveryLocked()
	s.mu.Unlock()

	dispatch(snapshot, handlers)
	return nil
}

func (s *MemorySource) UpdateOrderFields(ctx context.Context, orderID string, patch OrderFieldPatch) error {
	s.mu.Lock()
	order, exists := s.orders[orderID]
	if !exists {
		s.mu.Unlock()
		return errors.NewNotFoundError(fmt.Sprintf("order %s not found", orderID))
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		order.PaymentStatus = *patch.PaymentStatus
	}
	s.orders[orderID] = order
	snapshot, handlers := s.deliveryLocked()
	s.mu.Unlock()

	dispatch(snapshot, handlers)
	return nil
}

// stampLocked assigns the server timestamp, monotonically non-decreasing
// across the collection even if the wall clock steps back.
func (s *MemorySource) stampLocked() time.Time {
	t := s.now()
	if t.Before(s.lastStamp) {
		t = s.lastStamp
	}
	s.lastStamp = t
	return t
}

func (s *MemorySource) snapshotLocked() Snapshot {
	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, cloneOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return Snapshot{Orders: orders}
}

func (s *MemorySource) deliveryLocked() (Snapshot, []Handler) {
	handlers := make([]Handler, 0, len(s.subs))
	for _, h := range s.subs {
		handlers = append(handlers, h)
	}
	return s.snapshotLocked(), handlers
}

// dispatch runs outside the store lock so a handler may mutate the source in
// response to a delivery.
func dispatch(snapshot Snapshot, handlers []Handler) {
	for _, h := range handlers {
		h(snapshot, nil)
	}
}

func cloneOrder(o domain.Order) domain.Order {
	clone := o
	if o.Items != nil {
		clone.Items = make([]domain.LineItem, len(o.Items))
		for i, item := range o.Items {
			clone.Items[i] = item
			if item.SelectedOptions != nil {
				selected := make(map[string]string, len(item.SelectedOptions))
				for k, v := range item.SelectedOptions {
					selected[k] = v
				}
				clone.Items[i].SelectedOptions = selected
			}
		}
	}
	return clone
}
