package feed

import (
	"context"

	"brewline/internal/domain"
)

// Collection ids as persisted in the store. Field names inside the documents
// follow the json tags on the domain structs; admin tooling and reporting
// read the same literals.
const (
	CollectionOrders = "orders"
	CollectionMenu   = "menu"
)

// Snapshot is the complete current content of the orders collection,
// redelivered wholesale after every mutation anywhere in the collection.
type Snapshot struct {
	Orders []domain.Order `json:"orders"`
}

// Handler receives either a snapshot or a transport error, never both.
type Handler func(snapshot Snapshot, err error)

// Unsubscribe detaches a handler from its source. Safe to call more than
// once.
type Unsubscribe func()

// SnapshotSource delivers the full orders collection to a handler once on
// subscribe and again after every mutation. Two backings exist: MemorySource
// rebroadcasts the whole collection, IncrementalSource folds per-document
// events into an index. Both must deliver identical snapshots for the same
// underlying history.
type SnapshotSource interface {
	Subscribe(handler Handler) Unsubscribe
}

// OrderFieldPatch is a partial update to an order document. Nil members are
// left untouched.
type OrderFieldPatch struct {
	Status        *string
	PaymentStatus *string
}

// Mutator issues document mutations against the orders collection. Callers
// treat the calls as fire-and-forget: completion is observed through the
// next snapshot delivery, not through the call's own result.
type Mutator interface {
	CreateOrder(ctx context.Context, order domain.Order) error
	UpdateOrderFields(ctx context.Context, orderID string, patch OrderFieldPatch) error
}

func strPtr(s string) *string {
	return &s
}

// StatusPatch builds the patch for a plain status move.
func StatusPatch(status string) OrderFieldPatch {
	return OrderFieldPatch{Status: strPtr(status)}
}

// PaymentApprovalPatch builds the patch for the single transition that
// confirms payment together with the status move.
func PaymentApprovalPatch(status string) OrderFieldPatch {
	return OrderFieldPatch{
		Status:        strPtr(status),
		PaymentStatus: strPtr(domain.PaymentStatusConfirmed),
	}
}
