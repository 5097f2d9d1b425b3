package feed

import (
	"context"
	"testing"

	"brewline/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestIncrementalSource_FoldsUpserts(t *testing.T) {
	source := NewIncrementalSource()

	var got Snapshot
	source.Subscribe(func(s Snapshot, err error) { got = s })
	assert.Empty(t, got.Orders)

	source.Apply(OrderEvent{Type: EventUpsert, Order: newOrder("o-2")})
	source.Apply(OrderEvent{Type: EventUpsert, Order: newOrder("o-1")})

	assert.Len(t, got.Orders, 2)
	assert.Equal(t, "o-1", got.Orders[0].ID, "snapshots are key ordered")
	assert.Equal(t, "o-2", got.Orders[1].ID)
}

func TestIncrementalSource_RedundantUpsertConverges(t *testing.T) {
	source := NewIncrementalSource()

	var got Snapshot
	source.Subscribe(func(s Snapshot, err error) { got = s })

	event := OrderEvent{Type: EventUpsert, Order: newOrder("o-1")}
	source.Apply(event)
	source.Apply(event)

	assert.Len(t, got.Orders, 1)
}

func TestIncrementalSource_Delete(t *testing.T) {
	source := NewIncrementalSource()

	var got Snapshot
	source.Subscribe(func(s Snapshot, err error) { got = s })

	source.Apply(OrderEvent{Type: EventUpsert, Order: newOrder("o-1")})
	source.Apply(OrderEvent{Type: EventDelete, Order: newOrder("o-1")})

	assert.Empty(t, got.Orders)
}

// The capability contract behind SnapshotSource: after the same history,
// the incremental fold and a full refresh deliver identical snapshots.
func TestIncrementalSource_MatchesFullRefresh(t *testing.T) {
	full := NewMemorySource()
	incremental := NewIncrementalSource()

	// Mirror every full-refresh delivery into the incremental source as
	// per-document upserts, the way a diff transport would.
	var fromFull Snapshot
	full.Subscribe(func(s Snapshot, err error) {
		fromFull = s
		for _, o := range s.Orders {
			incremental.Apply(OrderEvent{Type: EventUpsert, Order: o})
		}
	})

	var fromIncremental Snapshot
	incremental.Subscribe(func(s Snapshot, err error) { fromIncremental = s })

	ctx := context.Background()
	assert.NoError(t, full.CreateOrder(ctx, newOrder("o-b")))
	assert.NoError(t, full.CreateOrder(ctx, newOrder("o-a")))
	assert.NoError(t, full.UpdateOrderFields(ctx, "o-b", PaymentApprovalPatch(domain.OrderStatusPending)))
	assert.NoError(t, full.UpdateOrderFields(ctx, "o-b", StatusPatch(domain.OrderStatusPreparing)))

	assert.Equal(t, fromFull, fromIncremental)
}
