package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnquoc/tableserve/internal/models"
)

func demoCatalog() Catalog {
	return Catalog{
		MenuItems: map[string]*models.MenuItem{
			"m1": {ID: "m1", Name: "Pho Bo", Price: 45000, BranchIDs: []string{"cn1"}, ToppingGroupIDs: []string{}},
			"m2": {
				ID: "m2", Name: "Ca Phe Sua Da", Price: 25000,
				BranchIDs: []string{"cn1"}, ToppingGroupIDs: []string{"g1"},
			},
		},
		ToppingGroups: map[string]models.ToppingGroup{
			"g1": {
				ID: "g1", Name: "Pick one", MinSelection: 1, MaxSelection: 1,
				ToppingIDs: []string{"t1", "t2"},
			},
		},
	}
}

func validCart() *models.Cart {
	return &models.Cart{
		BranchID:    "cn1",
		TableNumber: 5,
		Lines: []models.CartLine{
			{MenuItemID: "m1", Quantity: 2},
		},
	}
}

func TestBuildOrder(t *testing.T) {
	now := time.Now()

	o, err := BuildOrder(validCart(), demoCatalog(), models.PaymentMethodCash, now)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "cn1", o.BranchID)
	assert.Equal(t, 5, o.TableNumber)
	assert.Equal(t, models.OrderStatusNew, o.Status)
	assert.Equal(t, 90000.0, o.Total)
	assert.Equal(t, now.UnixMilli(), o.CreatedAt)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Pho Bo", o.Items[0].Name)
	assert.Equal(t, 45000.0, o.Items[0].Price)
}

func TestBuildOrder_PreconditionOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Cart)
		wantErr error
	}{
		{
			name:    "empty cart wins first",
			mutate:  func(c *models.Cart) { c.Lines = nil; c.BranchID = ""; c.TableNumber = 0 },
			wantErr: ErrEmptyCart,
		},
		{
			name:    "then missing branch",
			mutate:  func(c *models.Cart) { c.BranchID = ""; c.TableNumber = 0 },
			wantErr: ErrNoBranch,
		},
		{
			name:    "then missing table",
			mutate:  func(c *models.Cart) { c.TableNumber = 0 },
			wantErr: ErrNoTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := validCart()
			tt.mutate(cart)
			_, err := BuildOrder(cart, demoCatalog(), models.PaymentMethodCash, time.Now())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuildOrder_InvalidInputs(t *testing.T) {
	t.Run("bad payment method", func(t *testing.T) {
		_, err := BuildOrder(validCart(), demoCatalog(), "CRYPTO", time.Now())
		assert.ErrorIs(t, err, ErrInvalidPayment)
	})

	t.Run("unknown menu item", func(t *testing.T) {
		cart := validCart()
		cart.Lines[0].MenuItemID = "ghost"
		_, err := BuildOrder(cart, demoCatalog(), models.PaymentMethodCash, time.Now())
		assert.ErrorIs(t, err, ErrUnknownMenuItem)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		cart := validCart()
		cart.Lines[0].Quantity = 0
		_, err := BuildOrder(cart, demoCatalog(), models.PaymentMethodCash, time.Now())
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestBuildOrder_ToppingBounds(t *testing.T) {
	lineFor := func(toppings ...models.OrderTopping) *models.Cart {
		return &models.Cart{
			BranchID:    "cn1",
			TableNumber: 5,
			Lines: []models.CartLine{
				{MenuItemID: "m2", Quantity: 1, Toppings: toppings},
			},
		}
	}

	t.Run("exactly k selections required when min equals max", func(t *testing.T) {
		_, err := BuildOrder(lineFor(), demoCatalog(), models.PaymentMethodCash, time.Now())
		var boundsErr *ToppingBoundsError
		require.ErrorAs(t, err, &boundsErr)
		assert.Equal(t, 1, boundsErr.Min)
		assert.Equal(t, 1, boundsErr.Max)
		assert.Equal(t, 0, boundsErr.Chosen)
	})

	t.Run("one selection satisfies the gate", func(t *testing.T) {
		o, err := BuildOrder(
			lineFor(models.OrderTopping{ID: "t1", Name: "Pearl Jelly", Price: 5000}),
			demoCatalog(), models.PaymentMethodCash, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 30000.0, o.Total)
	})

	t.Run("too many selections rejected", func(t *testing.T) {
		_, err := BuildOrder(
			lineFor(
				models.OrderTopping{ID: "t1", Price: 5000},
				models.OrderTopping{ID: "t2", Price: 5000},
			),
			demoCatalog(), models.PaymentMethodCash, time.Now())
		var boundsErr *ToppingBoundsError
		require.ErrorAs(t, err, &boundsErr)
		assert.Equal(t, 2, boundsErr.Chosen)
	})

	t.Run("min zero allows zero selections", func(t *testing.T) {
		catalog := demoCatalog()
		group := catalog.ToppingGroups["g1"]
		group.MinSelection = 0
		catalog.ToppingGroups["g1"] = group

		_, err := BuildOrder(lineFor(), catalog, models.PaymentMethodCash, time.Now())
		assert.NoError(t, err)
	})
}

// Later catalog edits must never reach into a placed order: the builder
// copies names and prices by value.
func TestBuildOrder_FrozenSnapshot(t *testing.T) {
	catalog := demoCatalog()
	o, err := BuildOrder(validCart(), catalog, models.PaymentMethodCash, time.Now())
	require.NoError(t, err)

	catalog.MenuItems["m1"].Price = 99000
	catalog.MenuItems["m1"].Name = "Renamed"

	assert.Equal(t, "Pho Bo", o.Items[0].Name)
	assert.Equal(t, 45000.0, o.Items[0].Price)
	assert.Equal(t, 90000.0, o.Total)
}
