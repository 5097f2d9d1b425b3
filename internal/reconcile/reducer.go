// Package reconcile derives the two live views from a raw orders snapshot.
// Both reducers are pure: they never mutate their input and identical input
// yields identical output, which is what makes whole-collection re-delivery
// safe to apply repeatedly.
package reconcile

import (
	"sort"
	"time"

	"brewline/internal/domain"
)

// pickupTimeLayout matches the labels the slot generator produces, a
// same-day "3:04 PM" style string.
const pickupTimeLayout = "3:04 PM"

// ActiveOrderFor returns the single most recent active order owned by
// ownerID, or false when none exists. The store cannot filter on owner and
// status together, so the whole snapshot is reduced client-side.
func ActiveOrderFor(snapshot []domain.Order, ownerID string) (domain.Order, bool) {
	var best domain.Order
	found := false

	for _, o := range snapshot {
		if o.OwnerID != ownerID || !o.IsActive() {
			continue
		}
		// A zero CreatedAt means the server has not stamped the document
		// yet; it compares as the epoch, so a stamped order always wins.
		if !found || o.CreatedAt.After(best.CreatedAt) {
			best = o
			found = true
		}
	}

	return best, found
}

// LiveQueue returns every active order, most urgent first: ascending status
// priority, then ascending pickup time within equal priority.
func LiveQueue(snapshot []domain.Order) []domain.Order {
	queue := make([]domain.Order, 0, len(snapshot))
	for _, o := range snapshot {
		if o.IsActive() {
			queue = append(queue, o)
		}
	}

	sort.SliceStable(queue, func(i, j int) bool {
		ri, _ := domain.StatusRank(queue[i].Status)
		rj, _ := domain.StatusRank(queue[j].Status)
		if ri != rj {
			return ri < rj
		}
		return pickupBefore(queue[i].PickupTime, queue[j].PickupTime)
	})

	return queue
}

// pickupBefore compares two pickup labels as times of day. Labels that do
// not parse fall back to lexical order so documents stored before the slot
// format settled still sort deterministically.
func pickupBefore(a, b string) bool {
	ta, errA := time.Parse(pickupTimeLayout, a)
	tb, errB := time.Parse(pickupTimeLayout, b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ta.Before(tb)
}
