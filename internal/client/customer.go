// Package client holds the two terminal-side loops: a customer session and
// a staff terminal. Each consumes the same raw snapshot feed and derives its
// own view; neither trusts a mutation until the feed redelivers it.
package client

import (
	"context"
	"sync"

	"brewline/internal/cart"
	"brewline/internal/domain"
	"brewline/internal/feed"
	"brewline/internal/reconcile"

	"go.uber.org/zap"
)

// CustomerSession tracks the single active order for one user. The owner id
// comes from the identity collaborator and is stable for the session.
type CustomerSession struct {
	ownerID string
	mutator feed.Mutator
	logger  *zap.Logger

	mu        sync.RWMutex
	active    domain.Order
	hasActive bool

	unsubscribe feed.Unsubscribe
}

func NewCustomerSession(ownerID string, source feed.SnapshotSource, mutator feed.Mutator, logger *zap.Logger) *CustomerSession {
	s := &CustomerSession{
		ownerID: ownerID,
		mutator: mutator,
		logger:  logger,
	}
	s.unsubscribe = source.Subscribe(s.onSnapshot)
	return s
}

func (s *CustomerSession) onSnapshot(snapshot feed.Snapshot, err error) {
	if err != nil {
		// Keep the last good view; the next delivery supersedes it.
		s.logger.Error("feed delivery failed", zap.Error(err))
		return
	}

	active, ok := reconcile.ActiveOrderFor(snapshot.Orders, s.ownerID)

	s.mu.Lock()
	s.active = active
	s.hasActive = ok
	s.mu.Unlock()
}

// ActiveOrder returns the most recent active order this session owns, as of
// the last snapshot delivery.
func (s *CustomerSession) ActiveOrder() (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.hasActive
}

// Submit checks out the cart and creates the order document. The returned
// boolean only says the document reached the store; the order becomes
// visible through the feed, not through this call.
func (s *CustomerSession) Submit(ctx context.Context, c *cart.Cart, customerName, pickupTime string) bool {
	order, err := c.Checkout(s.ownerID, customerName, pickupTime)
	if err != nil {
		s.logger.Warn("checkout rejected", zap.Error(err))
		return false
	}

	if err := s.mutator.CreateOrder(ctx, order); err != nil {
		s.logger.Error("order submission failed",
			zap.String("orderId", order.ID),
			zap.Error(err),
		)
		return false
	}

	s.logger.Info("order submitted", zap.String("orderId", order.ID))
	return true
}

func (s *CustomerSession) Close() {
	s.unsubscribe()
}
