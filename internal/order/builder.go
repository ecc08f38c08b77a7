package order

import (
	"time"

	"github.com/lucsky/cuid"

	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/internal/pricing"
)

// Catalog is the current menu state the builder snapshots from.
type Catalog struct {
	MenuItems     map[string]*models.MenuItem
	ToppingGroups map[string]models.ToppingGroup
}

// BuildOrder assembles a frozen order from the pending cart. Preconditions
// are checked in order with the first failure winning: non-empty cart,
// branch selected, table bound. Item names and prices are copied by value
// from the catalog so later menu edits never alter the placed order.
func BuildOrder(cart *models.Cart, catalog Catalog, paymentMethod string, now time.Time) (models.Order, error) {
	if cart == nil || cart.Empty() {
		return models.Order{}, ErrEmptyCart
	}
	if cart.BranchID == "" {
		return models.Order{}, ErrNoBranch
	}
	if cart.TableNumber <= 0 {
		return models.Order{}, ErrNoTable
	}
	if paymentMethod != models.PaymentMethodCash && paymentMethod != models.PaymentMethodTransfer {
		return models.Order{}, ErrInvalidPayment
	}

	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.Quantity <= 0 {
			return models.Order{}, ErrInvalidQuantity
		}
		item, ok := catalog.MenuItems[line.MenuItemID]
		if !ok {
			return models.Order{}, ErrUnknownMenuItem
		}
		if err := validateToppingBounds(item, line, catalog.ToppingGroups); err != nil {
			return models.Order{}, err
		}

		toppings := make([]models.OrderTopping, len(line.Toppings))
		copy(toppings, line.Toppings)

		items = append(items, models.OrderItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      pricing.LineTotal(item, line.Toppings, 1),
			Quantity:   line.Quantity,
			Toppings:   toppings,
			Note:       line.Note,
		})
	}

	return models.Order{
		ID:            cuid.New(),
		BranchID:      cart.BranchID,
		TableNumber:   cart.TableNumber,
		Items:         items,
		Total:         pricing.OrderTotal(items),
		Status:        models.OrderStatusNew,
		CreatedAt:     now.UnixMilli(),
		PaymentMethod: paymentMethod,
		Note:          cart.Note,
	}, nil
}

// validateToppingBounds re-checks min/max selection counts for every group
// attached to the ordered item.
func validateToppingBounds(item *models.MenuItem, line models.CartLine, groups map[string]models.ToppingGroup) error {
	for _, groupID := range item.ToppingGroupIDs {
		group, ok := groups[groupID]
		if !ok {
			continue
		}
		chosen := 0
		for _, sel := range line.Toppings {
			if containsID(group.ToppingIDs, sel.ID) {
				chosen++
			}
		}
		if chosen < group.MinSelection || chosen > group.MaxSelection {
			return &ToppingBoundsError{
				GroupID:   group.ID,
				GroupName: group.Name,
				Min:       group.MinSelection,
				Max:       group.MaxSelection,
				Chosen:    chosen,
			}
		}
	}
	return nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
