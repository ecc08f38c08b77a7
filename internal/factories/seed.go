package factories

import (
	"context"
	"fmt"

	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/internal/store"
)

// Seed populates an empty store with a demo catalog: branches, categories,
// toppings, topping groups, menu items, kitchen settings and one admin
// credential. Orders start empty.
func Seed(ctx context.Context, st store.Store, branchCount int) error {
	if branchCount <= 0 {
		branchCount = 1
	}

	branchFactory := &BranchFactory{}
	menuFactory := &MenuFactory{}

	branches := make([]models.Branch, branchCount)
	branchIDs := make([]string, branchCount)
	for i := 0; i < branchCount; i++ {
		branches[i] = branchFactory.CreateBranch(i)
		branchIDs[i] = branches[i].ID
	}

	categories := menuFactory.CreateCategories()
	toppings := menuFactory.CreateToppings()
	groups := menuFactory.CreateToppingGroups(toppings)
	items := menuFactory.CreateMenuItems(categories, groups, branchIDs)

	subtrees := []struct {
		path  string
		value interface{}
	}{
		{models.PathBranches, branches},
		{models.PathCategories, categories},
		{models.PathToppings, toppings},
		{models.PathToppingGroups, groups},
		{models.PathMenuItems, items},
		{models.PathOrders, []models.Order{}},
		{models.PathKitchenSettings, models.DefaultKitchenSettings()},
		{models.PathAdmins, []models.Admin{{Username: "admin", Password: "admin"}}},
	}
	for _, subtree := range subtrees {
		if err := st.ReplaceSubtree(ctx, subtree.path, subtree.value); err != nil {
			return fmt.Errorf("failed to seed %s: %w", subtree.path, err)
		}
	}
	return nil
}

// IsEmpty reports whether the store has no catalog yet.
func IsEmpty(doc store.Document) bool {
	return doc[models.PathBranches] == nil && doc[models.PathMenuItems] == nil
}
