package usecase

import (
	"context"
	"testing"

	"brewline/internal/domain"
	apperrors "brewline/internal/errors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func storedOrder(status, paymentStatus string) *domain.Order {
	return &domain.Order{
		ID:            "o-1",
		OwnerID:       "u-1",
		Status:        status,
		PaymentStatus: paymentStatus,
	}
}

func newTransitionUseCase(store *mockOrderStore, publisher *mockPublisher) *TransitionUseCase {
	return NewTransitionUseCase(store, publisher, zap.NewNop())
}

func TestTransition_ForwardStep(t *testing.T) {
	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return storedOrder(domain.OrderStatusPending, domain.PaymentStatusConfirmed), nil
		},
	}
	publisher := &mockPublisher{}
	uc := newTransitionUseCase(store, publisher)

	err := uc.Transition(context.Background(), "o-1", domain.OrderStatusPreparing)

	assert.NoError(t, err)
	assert.Equal(t, 1, store.updateCalls)
	assert.Equal(t, domain.OrderStatusPreparing, *store.lastPatch.Status)
	assert.Nil(t, store.lastPatch.PaymentStatus)
	assert.Equal(t, 1, publisher.publishCalls)
}

func TestTransition_AlreadyAppliedIsIdempotentNoOp(t *testing.T) {
	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return storedOrder(domain.OrderStatusPending, domain.PaymentStatusConfirmed), nil
		},
	}
	publisher := &mockPublisher{}
	uc := newTransitionUseCase(store, publisher)

	err := uc.Transition(context.Background(), "o-1", domain.OrderStatusPending)

	assert.NoError(t, err, "two terminals racing on the same step must not error")
	assert.Equal(t, 0, store.updateCalls)
	assert.Equal(t, 0, publisher.publishCalls)
}

func TestTransition_SkippingTheChainIsAConflict(t *testing.T) {
	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return storedOrder(domain.OrderStatusWaitingForPayment, domain.PaymentStatusAwaiting), nil
		},
	}
	uc := newTransitionUseCase(store, &mockPublisher{})

	err := uc.Transition(context.Background(), "o-1", domain.OrderStatusPreparing)

	_, ok := apperrors.IsStateConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, 0, store.updateCalls)
}

func TestTransition_BackwardIsAConflict(t *testing.T) {
	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return storedOrder(domain.OrderStatusReady, domain.PaymentStatusConfirmed), nil
		},
	}
	uc := newTransitionUseCase(store, &mockPublisher{})

	err := uc.Transition(context.Background(), "o-1", domain.OrderStatusPreparing)

	_, ok := apperrors.IsStateConflictError(err)
	assert.True(t, ok)
}

func TestTransition_PaymentApprovalFlipsBothFields(t *testing.T) {
	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return storedOrder(domain.OrderStatusWaitingForPayment, domain.PaymentStatusAwaiting), nil
		},
	}
	uc := newTransitionUseCase(store, &mockPublisher{})

	err := uc.Transition(context.Background(), "o-1", domain.OrderStatusPending)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, *store.lastPatch.Status)
	assert.Equal(t, domain.PaymentStatusConfirmed, *store.lastPatch.PaymentStatus)
}

func TestTransition_ApprovalRequiresAwaitingPayment(t *testing.T) {
	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return storedOrder(domain.OrderStatusWaitingForPayment, domain.PaymentStatusConfirmed), nil
		},
	}
	uc := newTransitionUseCase(store, &mockPublisher{})

	err := uc.Transition(context.Background(), "o-1", domain.OrderStatusPending)

	_, ok := apperrors.IsStateConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, 0, store.updateCalls)
}

func TestTransition_CancellationFromAnyActiveStatus(t *testing.T) {
	for _, status := range []string{
		domain.OrderStatusWaitingForPayment,
		domain.OrderStatusPending,
		domain.OrderStatusPreparing,
		domain.OrderStatusReady,
	} {
		store := &mockOrderStore{
			FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
				return storedOrder(status, domain.PaymentStatusConfirmed), nil
			},
		}
		uc := newTransitionUseCase(store, &mockPublisher{})

		err := uc.Transition(context.Background(), "o-1", domain.OrderStatusCancelled)

		assert.NoError(t, err, status)
		assert.Nil(t, store.lastPatch.PaymentStatus, "cancellation never touches paymentStatus")
	}
}

func TestTransition_TerminalStateRejectsEverything(t *testing.T) {
	for _, status := range []string{domain.OrderStatusCompleted, domain.OrderStatusCancelled} {
		store := &mockOrderStore{
			FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
				return storedOrder(status, domain.PaymentStatusConfirmed), nil
			},
		}
		uc := newTransitionUseCase(store, &mockPublisher{})

		err := uc.Transition(context.Background(), "o-1", domain.OrderStatusPending)

		_, ok := apperrors.IsStateConflictError(err)
		assert.True(t, ok, status)
	}
}

func TestRefresh_DeliversPersistedCollectionWithoutMutation(t *testing.T) {
	store := &mockOrderStore{
		ListAllFunc: func(ctx context.Context) ([]domain.Order, error) {
			return []domain.Order{
				*storedOrder(domain.OrderStatusPending, domain.PaymentStatusConfirmed),
			}, nil
		},
	}
	publisher := &mockPublisher{}
	uc := newTransitionUseCase(store, publisher)

	uc.Refresh(context.Background())

	assert.Equal(t, 1, publisher.publishCalls, "startup priming must not wait for a mutation")
	assert.Len(t, publisher.lastOrders, 1)
}

func TestTransition_UnknownOrder(t *testing.T) {
	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order o-x not found")
		},
	}
	uc := newTransitionUseCase(store, &mockPublisher{})

	err := uc.Transition(context.Background(), "o-x", domain.OrderStatusPending)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
