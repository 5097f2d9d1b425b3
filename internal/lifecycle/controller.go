package lifecycle

import (
	"context"

	"brewline/internal/domain"
	"brewline/internal/feed"

	"go.uber.org/zap"
)

// Controller issues status transitions on behalf of a client. Eligibility is
// computed from the order as the client currently observes it, before any
// command is constructed; an ineligible request issues no mutation at all.
// The authoritative check happens again server-side against the same rule
// table, so two clients racing on one order converge instead of erroring.
type Controller struct {
	mutator feed.Mutator
	logger  *zap.Logger
}

func NewController(mutator feed.Mutator, logger *zap.Logger) *Controller {
	return &Controller{
		mutator: mutator,
		logger:  logger,
	}
}

// Offered returns the transition a client should present for the order, or
// false when the order is terminal.
func (c *Controller) Offered(order domain.Order) (string, bool) {
	return NextInChain(order.Status)
}

// RequestTransition asks for order to move to target. Fire-and-forget: a
// transport failure is logged, never surfaced, and the outcome is observed
// through the next snapshot. Requesting a target the order cannot legally
// reach from its observed status, including its current status again, is a
// no-op.
func (c *Controller) RequestTransition(ctx context.Context, order domain.Order, target string) {
	if order.Status == target {
		return
	}
	if !CanTransition(order.Status, target) {
		c.logger.Debug("transition not offered",
			zap.String("orderId", order.ID),
			zap.String("from", order.Status),
			zap.String("to", target),
		)
		return
	}

	patch := feed.StatusPatch(target)
	if ConfirmsPayment(order.Status, target) {
		if order.PaymentStatus != domain.PaymentStatusAwaiting {
			c.logger.Debug("payment already confirmed, skipping approval",
				zap.String("orderId", order.ID),
			)
			return
		}
		patch = feed.PaymentApprovalPatch(target)
	}

	if err := c.mutator.UpdateOrderFields(ctx, order.ID, patch); err != nil {
		c.logger.Error("transition request failed",
			zap.String("orderId", order.ID),
			zap.String("to", target),
			zap.Error(err),
		)
	}
}
