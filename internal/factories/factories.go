// Package factories builds demo catalog data for empty stores, used by
// the seed command and the serve path's first-run seed check.
package factories

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/hnquoc/tableserve/internal/models"
)

var fake = faker.New()

type BranchFactory struct{}

// CreateBranch anchors demo branches around central Ho Chi Minh City so
// the check-in geofence has realistic coordinates to verify against.
func (bf *BranchFactory) CreateBranch(index int) models.Branch {
	lat := 10.7769 + fake.Float64(4, -200, 200)/10000
	lon := 106.7009 + fake.Float64(4, -200, 200)/10000
	if index == 0 {
		// The first branch keeps the canonical anchor so printed demo QR
		// codes match it exactly.
		lat, lon = 10.7769, 106.7009
	}
	return models.Branch{
		ID:              cuid.Slug(),
		Name:            fake.Company().Name(),
		Latitude:        lat,
		Longitude:       lon,
		AllowedDistance: models.DefaultAllowedDistance,
		TableCount:      fake.IntBetween(8, 24),
		Printer:         models.DefaultPrinterConfig(),
	}.FillDefaults()
}

type MenuFactory struct{}

var demoCategories = []string{"Noodles", "Rice", "Grill", "Drinks", "Desserts"}

var demoDishes = map[string][]string{
	"Noodles":  {"Pho Bo", "Bun Cha", "Mi Quang", "Hu Tieu"},
	"Rice":     {"Com Tam", "Com Ga", "Com Chien Duong Chau"},
	"Grill":    {"Bo Nuong La Lot", "Nem Nuong", "Suon Nuong"},
	"Drinks":   {"Ca Phe Sua Da", "Tra Da", "Nuoc Mia", "Sinh To Bo"},
	"Desserts": {"Che Ba Mau", "Banh Flan", "Kem Dua"},
}

func (mf *MenuFactory) CreateCategories() []models.Category {
	categories := make([]models.Category, 0, len(demoCategories))
	for _, name := range demoCategories {
		categories = append(categories, models.Category{ID: cuid.Slug(), Name: name})
	}
	return categories
}

func (mf *MenuFactory) CreateToppings() []models.Topping {
	names := []string{"Extra Beef", "Fried Egg", "Extra Noodles", "Peanuts", "Condensed Milk", "Pearl Jelly"}
	toppings := make([]models.Topping, 0, len(names))
	for _, name := range names {
		toppings = append(toppings, models.Topping{
			ID:    cuid.Slug(),
			Name:  name,
			Price: float64(fake.IntBetween(5, 15)) * 1000,
		})
	}
	return toppings
}

func (mf *MenuFactory) CreateToppingGroups(toppings []models.Topping) []models.ToppingGroup {
	if len(toppings) == 0 {
		return []models.ToppingGroup{}
	}
	half := len(toppings) / 2
	return []models.ToppingGroup{
		{
			ID:           cuid.Slug(),
			Name:         "Add-ons",
			MinSelection: 0,
			MaxSelection: half,
			ToppingIDs:   toppingIDs(toppings[:half]),
		},
		{
			ID:           cuid.Slug(),
			Name:         "Pick one",
			MinSelection: 1,
			MaxSelection: 1,
			ToppingIDs:   toppingIDs(toppings[half:]),
		},
	}
}

func (mf *MenuFactory) CreateMenuItems(categories []models.Category, groups []models.ToppingGroup, branchIDs []string) []models.MenuItem {
	items := []models.MenuItem{}
	for _, category := range categories {
		for _, dish := range demoDishes[category.Name] {
			item := models.MenuItem{
				ID:          cuid.Slug(),
				CategoryID:  category.ID,
				Name:        dish,
				Description: fake.Lorem().Sentence(8),
				Price:       float64(fake.IntBetween(25, 95)) * 1000,
				Featured:    fake.Bool(),
				BranchIDs:   append([]string(nil), branchIDs...),
			}
			if len(groups) > 0 && rand.Intn(2) == 0 {
				item.ToppingGroupIDs = []string{groups[rand.Intn(len(groups))].ID}
			}
			items = append(items, item.FillDefaults())
		}
	}
	return items
}

func toppingIDs(toppings []models.Topping) []string {
	ids := make([]string, len(toppings))
	for i, t := range toppings {
		ids[i] = t.ID
	}
	return ids
}
