package client

import (
	"context"
	"sync"

	"brewline/internal/domain"
	"brewline/internal/feed"
	"brewline/internal/lifecycle"
	"brewline/internal/reconcile"

	"go.uber.org/zap"
)

// StaffTerminal maintains the prioritized live queue and issues lifecycle
// moves for the orders it currently observes.
type StaffTerminal struct {
	ctrl   *lifecycle.Controller
	logger *zap.Logger

	mu    sync.RWMutex
	queue []domain.Order

	unsubscribe feed.Unsubscribe
}

func NewStaffTerminal(source feed.SnapshotSource, mutator feed.Mutator, logger *zap.Logger) *StaffTerminal {
	t := &StaffTerminal{
		ctrl:   lifecycle.NewController(mutator, logger),
		logger: logger,
	}
	t.unsubscribe = source.Subscribe(t.onSnapshot)
	return t
}

func (t *StaffTerminal) onSnapshot(snapshot feed.Snapshot, err error) {
	if err != nil {
		t.logger.Error("feed delivery failed", zap.Error(err))
		return
	}

	queue := reconcile.LiveQueue(snapshot.Orders)

	t.mu.Lock()
	t.queue = queue
	t.mu.Unlock()
}

// Queue returns the live queue as of the last snapshot delivery, most
// urgent first.
func (t *StaffTerminal) Queue() []domain.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.queue
}

// Offered returns the forward step a terminal presents for orderID, based
// on the currently observed queue.
func (t *StaffTerminal) Offered(orderID string) (string, bool) {
	order, ok := t.observed(orderID)
	if !ok {
		return "", false
	}
	return t.ctrl.Offered(order)
}

// Advance requests the next forward step for orderID. Unknown orders and
// orders with nothing to offer are ignored; a raced request converges
// through the feed rather than erroring.
func (t *StaffTerminal) Advance(ctx context.Context, orderID string) {
	order, ok := t.observed(orderID)
	if !ok {
		return
	}
	next, ok := t.ctrl.Offered(order)
	if !ok {
		return
	}
	t.ctrl.RequestTransition(ctx, order, next)
}

// Cancel requests the out-of-band terminal move for orderID.
func (t *StaffTerminal) Cancel(ctx context.Context, orderID string) {
	order, ok := t.observed(orderID)
	if !ok {
		return
	}
	t.ctrl.RequestTransition(ctx, order, domain.OrderStatusCancelled)
}

func (t *StaffTerminal) observed(orderID string) (domain.Order, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, o := range t.queue {
		if o.ID == orderID {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (t *StaffTerminal) Close() {
	t.unsubscribe()
}
