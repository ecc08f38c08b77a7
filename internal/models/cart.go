package models

// CartLine is a client-local pending line. The topping selection is frozen
// at pick time so the order builder can snapshot it without re-reading the
// catalog for names and prices.
type CartLine struct {
	MenuItemID string
	Quantity   int
	Note       string
	Toppings   []OrderTopping
}

// Cart is the client-local pending order. It is never replicated; it is
// destroyed on successful submission or explicit abandonment.
type Cart struct {
	BranchID    string
	TableNumber int
	Lines       []CartLine
	Note        string
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// AddLine appends a line, merging into an existing line when the item and
// note match and neither carries toppings.
func (c *Cart) AddLine(line CartLine) {
	if len(line.Toppings) == 0 {
		for i := range c.Lines {
			if c.Lines[i].MenuItemID == line.MenuItemID &&
				c.Lines[i].Note == line.Note &&
				len(c.Lines[i].Toppings) == 0 {
				c.Lines[i].Quantity += line.Quantity
				return
			}
		}
	}
	c.Lines = append(c.Lines, line)
}

func (c *Cart) RemoveLine(i int) {
	if i < 0 || i >= len(c.Lines) {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// Clear drops every line and the order note but keeps the branch/table
// binding, so a customer can order again without re-scanning.
func (c *Cart) Clear() {
	c.Lines = nil
	c.Note = ""
}
