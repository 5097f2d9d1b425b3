package cart

import (
	"testing"

	"brewline/internal/domain"
	apperrors "brewline/internal/errors"

	"github.com/stretchr/testify/assert"
)

func latte() domain.MenuItem {
	return domain.MenuItem{
		ID:       "m-latte",
		Category: "coffee",
		Name:     "Latte",
		Price:    1500,
		Options: map[string][]string{
			OptionTemperature: {"hot", TemperatureIced},
			"milk":            {"whole", "oat"},
		},
	}
}

func icedAmericano() domain.MenuItem {
	return domain.MenuItem{
		ID:       "m-americano",
		Category: "coffee",
		Name:     "Iced Americano",
		Price:    1200,
		Options: map[string][]string{
			OptionTemperature: {TemperatureIced},
			"beans":           {"dark", "decaf"},
		},
	}
}

func TestAdd_ResolvesDefaults(t *testing.T) {
	c := New()
	id := c.Add(latte())

	assert.Len(t, c.Lines(), 1)
	line := c.Lines()[0]
	assert.Equal(t, id, line.ID)
	assert.Equal(t, "hot", line.Selected[OptionTemperature])
	assert.Equal(t, "whole", line.Selected["milk"])
	assert.False(t, line.OffersIceSeparation())
	_, hasIce := line.Selected[OptionIceSeparation]
	assert.False(t, hasIce)
}

func TestAdd_IcedDefaultOpensGate(t *testing.T) {
	c := New()
	c.Add(icedAmericano())

	line := c.Lines()[0]
	assert.True(t, line.OffersIceSeparation())
	assert.Equal(t, "together", line.Selected[OptionIceSeparation])
}

func TestSetOption_ValidatedAgainstSchema(t *testing.T) {
	c := New()
	id := c.Add(latte())

	assert.NoError(t, c.SetOption(id, "milk", "oat"))
	assert.Equal(t, "oat", c.Lines()[0].Selected["milk"])

	err := c.SetOption(id, "syrup", "vanilla")
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok, "unknown option key is rejected")

	err = c.SetOption(id, "milk", "almond")
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok, "value outside the declared list is rejected")
}

func TestSetOption_IcingOpensAndClosesGate(t *testing.T) {
	c := New()
	id := c.Add(latte())

	assert.NoError(t, c.SetOption(id, OptionTemperature, TemperatureIced))
	line := c.Lines()[0]
	assert.True(t, line.OffersIceSeparation())
	assert.Equal(t, "together", line.Selected[OptionIceSeparation])

	assert.NoError(t, c.SetOption(id, OptionIceSeparation, "separate"))

	// Going back to hot must clear the stored choice entirely.
	assert.NoError(t, c.SetOption(id, OptionTemperature, "hot"))
	line = c.Lines()[0]
	assert.False(t, line.OffersIceSeparation())
	_, stale := line.Selected[OptionIceSeparation]
	assert.False(t, stale, "stale ice-separation value must not leak into submission")
}

func TestSetOption_IceSeparationRejectedWhenNotIced(t *testing.T) {
	c := New()
	id := c.Add(latte())

	err := c.SetOption(id, OptionIceSeparation, "separate")
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestRemove_ByLineIdentity(t *testing.T) {
	c := New()
	first := c.Add(latte())
	second := c.Add(latte())

	c.Remove(first)

	assert.Len(t, c.Lines(), 1)
	assert.Equal(t, second, c.Lines()[0].ID)

	c.Remove("unknown")
	assert.Len(t, c.Lines(), 1)
}

func TestTotal(t *testing.T) {
	c := New()
	c.Add(latte())
	c.Add(icedAmericano())

	assert.Equal(t, 2700.0, c.Total())
}

func TestCheckout_BuildsOrderDocument(t *testing.T) {
	c := New()
	id := c.Add(latte())
	assert.NoError(t, c.SetOption(id, OptionTemperature, TemperatureIced))

	order, err := c.Checkout("u-1", "Dana", "10:30 AM")
	assert.NoError(t, err)

	assert.NotEmpty(t, order.ID, "document key is generated client-side")
	assert.Equal(t, "u-1", order.OwnerID)
	assert.Equal(t, "Dana", order.CustomerName)
	assert.Equal(t, "10:30 AM", order.PickupTime)
	assert.Equal(t, 1500.0, order.PaymentAmount)
	assert.Equal(t, domain.OrderStatusWaitingForPayment, order.Status)
	assert.Equal(t, domain.PaymentStatusAwaiting, order.PaymentStatus)
	assert.True(t, order.CreatedAt.IsZero(), "timestamp is server assigned")
	assert.Len(t, order.Items, 1)
	assert.Equal(t, TemperatureIced, order.Items[0].SelectedOptions[OptionTemperature])
	assert.Equal(t, "together", order.Items[0].SelectedOptions[OptionIceSeparation])
}

func TestCheckout_DistinctAttemptsGetDistinctKeys(t *testing.T) {
	c := New()
	c.Add(latte())

	first, err := c.Checkout("u-1", "Dana", "10:30 AM")
	assert.NoError(t, err)
	second, err := c.Checkout("u-1", "Dana", "10:30 AM")
	assert.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestCheckout_EmptyCart(t *testing.T) {
	c := New()

	_, err := c.Checkout("u-1", "Dana", "10:30 AM")

	ve, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "items", ve.Details[0].Field)
}

func TestCheckout_MissingNameAndPickup(t *testing.T) {
	c := New()
	c.Add(latte())

	_, err := c.Checkout("u-1", "", "")

	ve, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Len(t, ve.Details, 2)
}
