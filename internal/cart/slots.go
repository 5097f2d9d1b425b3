package cart

import "time"

const (
	// SlotCount is the fixed number of pickup choices offered at checkout.
	SlotCount = 6

	slotInterval = 15 * time.Minute
	minimumLead  = 10 * time.Minute

	slotLayout = "3:04 PM"
)

// PickupSlots generates the pickup-time choices for a checkout happening at
// now: SlotCount labels at quarter-hour boundaries, the first at least ten
// minutes out, rounded up to the next boundary (rolling the hour forward
// when needed).
func PickupSlots(now time.Time) []string {
	earliest := now.Add(minimumLead)

	first := earliest.Truncate(time.Minute)
	if first.Before(earliest) {
		first = first.Add(time.Minute)
	}
	if rem := first.Minute() % 15; rem != 0 {
		first = first.Add(time.Duration(15-rem) * time.Minute)
	}

	slots := make([]string, SlotCount)
	for i := range slots {
		slots[i] = first.Add(time.Duration(i) * slotInterval).Format(slotLayout)
	}
	return slots
}
