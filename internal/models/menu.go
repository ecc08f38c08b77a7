package models

type Category struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

type MenuItem struct {
	ID              string   `json:"id" mapstructure:"id"`
	CategoryID      string   `json:"categoryId" mapstructure:"categoryId"`
	Name            string   `json:"name" mapstructure:"name"`
	Description     string   `json:"description" mapstructure:"description"`
	Price           float64  `json:"price" mapstructure:"price"`
	ImageURL        string   `json:"imageUrl" mapstructure:"imageUrl"`
	OutOfStock      bool     `json:"outOfStock" mapstructure:"outOfStock"`
	Featured        bool     `json:"featured" mapstructure:"featured"`
	BranchIDs       []string `json:"branchIds" mapstructure:"branchIds"`
	ToppingGroupIDs []string `json:"toppingGroupIds" mapstructure:"toppingGroupIds"`
}

// FillDefaults guarantees the list fields are present. Replicated items
// written before a field existed come back with nil slices; consumers rely
// on both lists always being non-nil after sanitization.
func (m MenuItem) FillDefaults() MenuItem {
	if m.BranchIDs == nil {
		m.BranchIDs = []string{}
	}
	if m.ToppingGroupIDs == nil {
		m.ToppingGroupIDs = []string{}
	}
	return m
}

type Topping struct {
	ID    string  `json:"id" mapstructure:"id"`
	Name  string  `json:"name" mapstructure:"name"`
	Price float64 `json:"price" mapstructure:"price"`
}

type ToppingGroup struct {
	ID           string   `json:"id" mapstructure:"id"`
	Name         string   `json:"name" mapstructure:"name"`
	MinSelection int      `json:"minSelection" mapstructure:"minSelection"`
	MaxSelection int      `json:"maxSelection" mapstructure:"maxSelection"`
	ToppingIDs   []string `json:"toppingIds" mapstructure:"toppingIds"`
}

func (g ToppingGroup) FillDefaults() ToppingGroup {
	if g.ToppingIDs == nil {
		g.ToppingIDs = []string{}
	}
	if g.MaxSelection < g.MinSelection {
		g.MaxSelection = g.MinSelection
	}
	return g
}
