// Package pricing computes line and cart totals. All functions are pure;
// totals are always recomputed from scratch rather than incrementally
// accumulated, so repeated edits cannot drift.
package pricing

import "github.com/hnquoc/tableserve/internal/models"

// LineTotal returns (item price + sum of topping prices) x quantity.
// A nil item or negative quantity contributes zero.
func LineTotal(item *models.MenuItem, toppings []models.OrderTopping, quantity int) float64 {
	if item == nil || quantity <= 0 {
		return 0
	}
	unit := item.Price
	for _, t := range toppings {
		unit += t.Price
	}
	return unit * float64(quantity)
}

// CartTotal sums LineTotal over every cart line against the given catalog.
// Lines referencing unknown items contribute zero.
func CartTotal(cart *models.Cart, catalog map[string]*models.MenuItem) float64 {
	if cart == nil {
		return 0
	}
	total := 0.0
	for _, line := range cart.Lines {
		total += LineTotal(catalog[line.MenuItemID], line.Toppings, line.Quantity)
	}
	return total
}

// OrderTotal recomputes an order's total from its frozen lines. The stored
// total is never trusted after a line mutation; callers re-derive it here.
func OrderTotal(items []models.OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		total += item.Price * float64(item.Quantity)
	}
	return total
}
