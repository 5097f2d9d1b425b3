// Package cart accumulates line items client-side until checkout turns them
// into a single order document. Nothing here is persisted; the store only
// ever sees the finished document.
package cart

import (
	"fmt"

	"brewline/internal/domain"
	"brewline/internal/errors"

	"github.com/google/uuid"
)

const (
	// OptionTemperature is the schema key whose "iced" value gates the
	// extra ice-separation choice.
	OptionTemperature   = "temperature"
	TemperatureIced     = "iced"
	OptionIceSeparation = "iceSeparation"
)

// IceSeparationChoices are the values offered for the gated option; the
// first entry is the default when the gate opens.
var IceSeparationChoices = []string{"together", "separate"}

// Line is one item in the cart. Selected always satisfies the source menu
// item's schema plus, only while the drink is iced, the ice-separation key.
type Line struct {
	ID       string
	Item     domain.MenuItem
	Selected map[string]string
}

// OffersIceSeparation reports whether the gated option is currently
// presented for this line.
func (l Line) OffersIceSeparation() bool {
	return l.Selected[OptionTemperature] == TemperatureIced
}

type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add appends a line for item with every declared option resolved to its
// first value and returns the new line's id.
func (c *Cart) Add(item domain.MenuItem) string {
	selected := make(map[string]string, len(item.Options))
	for key := range item.Options {
		if value, ok := item.DefaultOptionFor(key); ok {
			selected[key] = value
		}
	}

	line := Line{
		ID:       uuid.New().String(),
		Item:     item,
		Selected: selected,
	}
	if line.OffersIceSeparation() {
		line.Selected[OptionIceSeparation] = IceSeparationChoices[0]
	}

	c.lines = append(c.lines, line)
	return line.ID
}

// SetOption changes one selection on a line. The key must exist in the
// item's schema, or be the ice-separation key while the line is iced.
// Moving temperature away from iced clears any stored ice-separation value
// so a stale choice can never reach submission.
func (c *Cart) SetOption(lineID, key, value string) error {
	line := c.find(lineID)
	if line == nil {
		return errors.NewValidationError(fmt.Sprintf("no cart line %s", lineID))
	}

	if key == OptionIceSeparation {
		if !line.OffersIceSeparation() {
			return errors.NewValidationError("ice separation is only offered for iced drinks")
		}
		if !contains(IceSeparationChoices, value) {
			return errors.NewValidationError(fmt.Sprintf("invalid ice separation choice %q", value))
		}
		line.Selected[key] = value
		return nil
	}

	if !line.Item.HasOption(key) {
		return errors.NewValidationError(fmt.Sprintf("item %s has no option %q", line.Item.Name, key))
	}
	if !contains(line.Item.Options[key], value) {
		return errors.NewValidationError(fmt.Sprintf("invalid value %q for option %q", value, key))
	}

	line.Selected[key] = value

	if key == OptionTemperature {
		if value == TemperatureIced {
			if _, ok := line.Selected[OptionIceSeparation]; !ok {
				line.Selected[OptionIceSeparation] = IceSeparationChoices[0]
			}
		} else {
			delete(line.Selected, OptionIceSeparation)
		}
	}

	return nil
}

// Remove deletes a line by identity. Unknown ids are ignored.
func (c *Cart) Remove(lineID string) {
	for i, line := range c.lines {
		if line.ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Lines() []Line {
	return c.lines
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Total is the exact sum of line prices; checkout captures it once and it is
// never recomputed after submission.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, line := range c.lines {
		total += line.Item.Price
	}
	return total
}

// Checkout builds the order document for submission. The id is generated
// client-side and used as the document key, so retrying the same checkout
// after a transport failure cannot create a duplicate.
func (c *Cart) Checkout(ownerID, customerName, pickupTime string) (domain.Order, error) {
	var details []errors.ValidationDetail
	if c.IsEmpty() {
		details = append(details, errors.ValidationDetail{
			Field:   "items",
			Message: "cart must not be empty",
		})
	}
	if customerName == "" {
		details = append(details, errors.ValidationDetail{
			Field:   "customerName",
			Message: "customer name is required",
		})
	}
	if pickupTime == "" {
		details = append(details, errors.ValidationDetail{
			Field:   "pickupTime",
			Message: "pickup time is required",
		})
	}
	if len(details) > 0 {
		return domain.Order{}, errors.NewValidationError("checkout validation failed", details...)
	}

	items := make([]domain.LineItem, len(c.lines))
	for i, line := range c.lines {
		selected := make(map[string]string, len(line.Selected))
		for k, v := range line.Selected {
			selected[k] = v
		}
		items[i] = domain.LineItem{
			Name:            line.Item.Name,
			UnitPrice:       line.Item.Price,
			SelectedOptions: selected,
		}
	}

	return domain.Order{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		CustomerName:  customerName,
		Items:         items,
		PickupTime:    pickupTime,
		PaymentAmount: c.Total(),
		Status:        domain.OrderStatusWaitingForPayment,
		PaymentStatus: domain.PaymentStatusAwaiting,
	}, nil
}

func (c *Cart) find(lineID string) *Line {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			return &c.lines[i]
		}
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
