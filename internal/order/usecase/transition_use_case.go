package usecase

import (
	"context"
	"fmt"

	"brewline/internal/domain"
	"brewline/internal/errors"
	"brewline/internal/feed"
	"brewline/internal/lifecycle"

	"go.uber.org/zap"
)

type OrderStore interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateFields(ctx context.Context, id string, patch feed.OrderFieldPatch) error
	ListAll(ctx context.Context) ([]domain.Order, error)
}

// TransitionUseCase is the single authority over lifecycle moves. It checks
// the request against the same rule table clients use to offer actions, so
// a request built from a stale snapshot dies here instead of corrupting the
// chain.
type TransitionUseCase struct {
	orders    OrderStore
	publisher SnapshotPublisher
	logger    *zap.Logger
}

func NewTransitionUseCase(orders OrderStore, publisher SnapshotPublisher, logger *zap.Logger) *TransitionUseCase {
	return &TransitionUseCase{
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

// Transition moves orderID to target if its current status is the immediate
// predecessor. Re-requesting the current status is an idempotent no-op, the
// tolerated outcome of two staff terminals racing. Any other ineligible
// request returns a StateConflictError, which callers treat as a silent
// no-op, never a user-visible failure.
func (uc *TransitionUseCase) Transition(ctx context.Context, orderID, target string) error {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status == target {
		uc.logger.Debug("transition already applied",
			zap.String("orderId", orderID),
			zap.String("status", target),
		)
		return nil
	}

	if !lifecycle.CanTransition(order.Status, target) {
		return errors.NewStateConflictError(
			fmt.Sprintf("order %s cannot move from %s to %s", orderID, order.Status, target),
		)
	}

	patch := feed.StatusPatch(target)
	if lifecycle.ConfirmsPayment(order.Status, target) {
		if order.PaymentStatus != domain.PaymentStatusAwaiting {
			return errors.NewStateConflictError(
				fmt.Sprintf("order %s payment is not awaiting confirmation", orderID),
			)
		}
		patch = feed.PaymentApprovalPatch(target)
	}

	if err := uc.orders.UpdateFields(ctx, orderID, patch); err != nil {
		uc.logger.Error("transition persist failed",
			zap.String("orderId", orderID),
			zap.String("to", target),
			zap.Error(err),
		)
		return err
	}

	uc.logger.Info("order transitioned",
		zap.String("orderId", orderID),
		zap.String("from", order.Status),
		zap.String("to", target),
	)

	uc.refresh(ctx)
	return nil
}

// ListOrders returns the complete collection for an initial client load.
func (uc *TransitionUseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return uc.orders.ListAll(ctx)
}

// Refresh redelivers the persisted collection to feed subscribers. Run once
// at startup so a terminal connecting before the first mutation still
// receives the current orders.
func (uc *TransitionUseCase) Refresh(ctx context.Context) {
	uc.refresh(ctx)
}

func (uc *TransitionUseCase) refresh(ctx context.Context) {
	orders, err := uc.orders.ListAll(ctx)
	if err != nil {
		uc.logger.Error("snapshot refresh failed", zap.Error(err))
		return
	}
	uc.publisher.Publish(orders)
}
