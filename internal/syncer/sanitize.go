// Package syncer owns the ingestion edge of the replicated document: it
// normalizes heterogeneous raw shapes into typed, fully-defaulted
// collections and detects externally-caused order transitions.
package syncer

import (
	"sort"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/internal/store"
)

// Snapshot is the sanitized projection of the full document. It is rebuilt
// from scratch on every push; nothing in it survives a refresh.
type Snapshot struct {
	Branches        []models.Branch
	Categories      []models.Category
	MenuItems       []models.MenuItem
	Toppings        []models.Topping
	ToppingGroups   []models.ToppingGroup
	Orders          []models.Order
	KitchenSettings models.KitchenSettings
	Admins          []models.Admin
	LogoURL         string
	ThemeColor      string
}

// ToOrderedList normalizes a replicated collection into a slice. The store
// represents a list either as a dense array or, when only some indices
// have ever been written, as a sparse keyed map; both shapes must produce
// the same output. Nil entries are dropped. Map keys sort numerically when
// they parse as integers, lexicographically otherwise.
func ToOrderedList(raw interface{}) []interface{} {
	switch v := raw.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, entry := range v {
			if entry != nil {
				out = append(out, entry)
			}
		}
		return out
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, aErr := strconv.Atoi(keys[i])
			b, bErr := strconv.Atoi(keys[j])
			if aErr == nil && bErr == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		out := make([]interface{}, 0, len(keys))
		for _, k := range keys {
			if v[k] != nil {
				out = append(out, v[k])
			}
		}
		return out
	default:
		return []interface{}{}
	}
}

// decodeInto maps one raw entry onto a typed struct. Weak typing covers
// the document's JSON numbers (always float64) landing in int fields.
func decodeInto(raw interface{}, target interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func decodeList[T any](raw interface{}, fill func(T) T) []T {
	entries := ToOrderedList(raw)
	out := make([]T, 0, len(entries))
	for _, entry := range entries {
		var item T
		if err := decodeInto(entry, &item); err != nil {
			continue
		}
		if fill != nil {
			item = fill(item)
		}
		out = append(out, item)
	}
	return out
}

func identity[T any](v T) T { return v }

// SanitizeBranches normalizes the branch collection, merging default
// printer settings under any missing fields.
func SanitizeBranches(raw interface{}) []models.Branch {
	return decodeList(raw, models.Branch.FillDefaults)
}

func SanitizeCategories(raw interface{}) []models.Category {
	return decodeList(raw, identity[models.Category])
}

func SanitizeMenuItems(raw interface{}) []models.MenuItem {
	return decodeList(raw, models.MenuItem.FillDefaults)
}

func SanitizeToppings(raw interface{}) []models.Topping {
	return decodeList(raw, identity[models.Topping])
}

func SanitizeToppingGroups(raw interface{}) []models.ToppingGroup {
	return decodeList(raw, models.ToppingGroup.FillDefaults)
}

func SanitizeOrders(raw interface{}) []models.Order {
	return decodeList(raw, models.Order.FillDefaults)
}

func SanitizeAdmins(raw interface{}) []models.Admin {
	return decodeList(raw, identity[models.Admin])
}

func SanitizeKitchenSettings(raw interface{}) models.KitchenSettings {
	var s models.KitchenSettings
	if raw != nil {
		_ = decodeInto(raw, &s)
	}
	return s.FillDefaults()
}

// SanitizeDocument rebuilds the full typed snapshot from a raw push. It is
// total and idempotent: absent subtrees resolve to empty collections or
// documented defaults, never nil surprises.
func SanitizeDocument(doc store.Document) Snapshot {
	snap := Snapshot{
		Branches:        SanitizeBranches(doc[models.PathBranches]),
		Categories:      SanitizeCategories(doc[models.PathCategories]),
		MenuItems:       SanitizeMenuItems(doc[models.PathMenuItems]),
		Toppings:        SanitizeToppings(doc[models.PathToppings]),
		ToppingGroups:   SanitizeToppingGroups(doc[models.PathToppingGroups]),
		Orders:          SanitizeOrders(doc[models.PathOrders]),
		KitchenSettings: SanitizeKitchenSettings(doc[models.PathKitchenSettings]),
		Admins:          SanitizeAdmins(doc[models.PathAdmins]),
	}
	if s, ok := doc[models.PathLogoURL].(string); ok {
		snap.LogoURL = s
	}
	if s, ok := doc[models.PathThemeColor].(string); ok {
		snap.ThemeColor = s
	}
	return snap
}

// MenuItemIndex builds the id lookup the order builder snapshots from.
func (s Snapshot) MenuItemIndex() map[string]*models.MenuItem {
	index := make(map[string]*models.MenuItem, len(s.MenuItems))
	for i := range s.MenuItems {
		index[s.MenuItems[i].ID] = &s.MenuItems[i]
	}
	return index
}

func (s Snapshot) ToppingGroupIndex() map[string]models.ToppingGroup {
	index := make(map[string]models.ToppingGroup, len(s.ToppingGroups))
	for _, g := range s.ToppingGroups {
		index[g.ID] = g
	}
	return index
}
