package usecase

import (
	"context"

	"brewline/internal/domain"
	"brewline/internal/errors"

	"go.uber.org/zap"
)

type OrderWriter interface {
	Insert(ctx context.Context, order domain.Order) error
	ListAll(ctx context.Context) ([]domain.Order, error)
}

// SnapshotPublisher pushes the refreshed collection to feed subscribers
// after a mutation.
type SnapshotPublisher interface {
	Publish(orders []domain.Order)
}

type SubmitOrderUseCase struct {
	orders    OrderWriter
	publisher SnapshotPublisher
	logger    *zap.Logger
}

func NewSubmitOrderUseCase(orders OrderWriter, publisher SnapshotPublisher, logger *zap.Logger) *SubmitOrderUseCase {
	return &SubmitOrderUseCase{
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit persists a checkout document and redelivers the collection. The
// lifecycle fields are forced to their initial values regardless of what the
// client sent; only the lifecycle authority may move them afterwards.
func (uc *SubmitOrderUseCase) Submit(ctx context.Context, order domain.Order) error {
	if err := validateSubmission(order); err != nil {
		return err
	}

	order.Status = domain.OrderStatusWaitingForPayment
	order.PaymentStatus = domain.PaymentStatusAwaiting

	if err := uc.orders.Insert(ctx, order); err != nil {
		uc.logger.Error("order submission failed",
			zap.String("orderId", order.ID),
			zap.Error(err),
		)
		return err
	}

	uc.logger.Info("order submitted",
		zap.String("orderId", order.ID),
		zap.String("ownerId", order.OwnerID),
		zap.Float64("paymentAmount", order.PaymentAmount),
		zap.Int("itemCount", len(order.Items)),
	)

	uc.refresh(ctx)
	return nil
}

func (uc *SubmitOrderUseCase) refresh(ctx context.Context) {
	orders, err := uc.orders.ListAll(ctx)
	if err != nil {
		// Subscribers keep their previous snapshot; the next successful
		// mutation redelivers everything anyway.
		uc.logger.Error("snapshot refresh failed", zap.Error(err))
		return
	}
	uc.publisher.Publish(orders)
}

func validateSubmission(order domain.Order) error {
	var details []errors.ValidationDetail

	if order.ID == "" {
		details = append(details, errors.ValidationDetail{
			Field:   "id",
			Message: "order id is required",
		})
	}
	if order.OwnerID == "" {
		details = append(details, errors.ValidationDetail{
			Field:   "ownerId",
			Message: "ownerId is required",
		})
	}
	if order.CustomerName == "" {
		details = append(details, errors.ValidationDetail{
			Field:   "customerName",
			Message: "customerName is required",
		})
	}
	if len(order.Items) == 0 {
		details = append(details, errors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}
	if order.PickupTime == "" {
		details = append(details, errors.ValidationDetail{
			Field:   "pickupTime",
			Message: "pickupTime is required",
		})
	}
	if order.PaymentAmount < 0 {
		details = append(details, errors.ValidationDetail{
			Field:   "paymentAmount",
			Message: "paymentAmount must be non-negative",
		})
	}

	if len(details) > 0 {
		return errors.NewValidationError("validation failed", details...)
	}
	return nil
}
