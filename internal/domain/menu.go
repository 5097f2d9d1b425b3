package domain

// MenuItem is a catalog entry. Options maps an option key ("beans", "milk")
// to the ordered list of allowed values; a key with no values is removed from
// the map entirely rather than stored empty.
type MenuItem struct {
	ID       string              `json:"id"`
	Category string              `json:"category"`
	Name     string              `json:"name"`
	Price    float64             `json:"price"`
	Options  map[string][]string `json:"options"`
}

// HasOption reports whether key is part of this item's option schema. Cart
// building validates selections with this check instead of a fixed struct,
// since option keys vary per item.
func (m MenuItem) HasOption(key string) bool {
	values, ok := m.Options[key]
	return ok && len(values) > 0
}

// DefaultOptionFor returns the first declared value for key, the default
// selection when a line item is added to the cart.
func (m MenuItem) DefaultOptionFor(key string) (string, bool) {
	values, ok := m.Options[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
