package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hnquoc/tableserve/internal/models"
)

func TestLineTotal(t *testing.T) {
	item := &models.MenuItem{ID: "m1", Name: "Pho Bo", Price: 45000}

	tests := []struct {
		name     string
		item     *models.MenuItem
		toppings []models.OrderTopping
		quantity int
		want     float64
	}{
		{
			name:     "plain item",
			item:     item,
			quantity: 2,
			want:     90000,
		},
		{
			name: "toppings add to the unit price",
			item: item,
			toppings: []models.OrderTopping{
				{ID: "t1", Name: "Extra Beef", Price: 10000},
				{ID: "t2", Name: "Fried Egg", Price: 5000},
			},
			quantity: 3,
			want:     180000,
		},
		{
			name:     "nil item contributes zero",
			item:     nil,
			quantity: 2,
			want:     0,
		},
		{
			name:     "non-positive quantity contributes zero",
			item:     item,
			quantity: 0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineTotal(tt.item, tt.toppings, tt.quantity))
		})
	}
}

func TestCartTotal(t *testing.T) {
	catalog := map[string]*models.MenuItem{
		"m1": {ID: "m1", Price: 45000},
		"m2": {ID: "m2", Price: 30000},
	}
	cart := &models.Cart{
		Lines: []models.CartLine{
			{MenuItemID: "m1", Quantity: 2},
			{MenuItemID: "m2", Quantity: 1, Toppings: []models.OrderTopping{{ID: "t1", Price: 5000}}},
			{MenuItemID: "missing", Quantity: 4},
		},
	}

	assert.Equal(t, 125000.0, CartTotal(cart, catalog))
	assert.Equal(t, 0.0, CartTotal(nil, catalog))
}

// Summation must be order-independent: shuffling the lines never changes
// the total.
func TestCartTotal_OrderIndependent(t *testing.T) {
	catalog := map[string]*models.MenuItem{}
	lines := make([]models.CartLine, 0, 20)
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		catalog[id] = &models.MenuItem{ID: id, Price: float64(rand.Intn(90)+10) * 1000}
		lines = append(lines, models.CartLine{MenuItemID: id, Quantity: rand.Intn(5) + 1})
	}

	want := CartTotal(&models.Cart{Lines: lines}, catalog)
	for trial := 0; trial < 10; trial++ {
		shuffled := append([]models.CartLine(nil), lines...)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, want, CartTotal(&models.Cart{Lines: shuffled}, catalog))
	}
}

func TestOrderTotal(t *testing.T) {
	items := []models.OrderItem{
		{MenuItemID: "m1", Price: 50000, Quantity: 2},
		{MenuItemID: "m2", Price: 30000, Quantity: 1},
		{MenuItemID: "m3", Price: 99999, Quantity: 0}, // ignored
	}
	assert.Equal(t, 130000.0, OrderTotal(items))
	assert.Equal(t, 0.0, OrderTotal(nil))
}
