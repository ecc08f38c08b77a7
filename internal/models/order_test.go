package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderElapsed(t *testing.T) {
	placedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	o := Order{CreatedAt: placedAt.UnixMilli()}

	assert.Equal(t, 5*time.Minute, o.Elapsed(placedAt.Add(5*time.Minute)))
	assert.Equal(t, time.Duration(0), o.Elapsed(placedAt))
}

func TestOrderTerminal(t *testing.T) {
	assert.False(t, Order{Status: OrderStatusNew}.Terminal())
	assert.False(t, Order{Status: OrderStatusCompleted}.Terminal())
	assert.True(t, Order{Status: OrderStatusPaid}.Terminal())
	assert.True(t, Order{Status: OrderStatusCancelled}.Terminal())
}

func TestOrderFillDefaults(t *testing.T) {
	o := Order{}.FillDefaults()
	assert.Equal(t, OrderStatusNew, o.Status)
	assert.Equal(t, PaymentMethodCash, o.PaymentMethod)
	assert.NotNil(t, o.Items)
}

func TestCartAddLineMerging(t *testing.T) {
	c := &Cart{}
	c.AddLine(CartLine{MenuItemID: "m1", Quantity: 1})
	c.AddLine(CartLine{MenuItemID: "m1", Quantity: 2})
	assert.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)

	// Lines carrying toppings never merge; the selections may differ.
	c.AddLine(CartLine{MenuItemID: "m1", Quantity: 1, Toppings: []OrderTopping{{ID: "t1"}}})
	c.AddLine(CartLine{MenuItemID: "m1", Quantity: 1, Toppings: []OrderTopping{{ID: "t1"}}})
	assert.Len(t, c.Lines, 3)

	// A differing note keeps the line separate too.
	c.AddLine(CartLine{MenuItemID: "m1", Quantity: 1, Note: "less spicy"})
	assert.Len(t, c.Lines, 4)
}
