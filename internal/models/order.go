package models

import "time"

// OrderTopping is the frozen snapshot of a topping selected on a line at
// submission time. Later catalog edits never touch it.
type OrderTopping struct {
	ID    string  `json:"id" mapstructure:"id"`
	Name  string  `json:"name" mapstructure:"name"`
	Price float64 `json:"price" mapstructure:"price"`
}

// OrderItem is one line of a placed order. Name and price are copied by
// value from the catalog when the order is built; Price already includes
// the selected toppings.
type OrderItem struct {
	MenuItemID string         `json:"menuItemId" mapstructure:"menuItemId"`
	Name       string         `json:"name" mapstructure:"name"`
	Price      float64        `json:"price" mapstructure:"price"`
	Quantity   int            `json:"quantity" mapstructure:"quantity"`
	Toppings   []OrderTopping `json:"toppings,omitempty" mapstructure:"toppings"`
	Note       string         `json:"note,omitempty" mapstructure:"note"`
}

type Order struct {
	ID            string      `json:"id" mapstructure:"id"`
	BranchID      string      `json:"branchId" mapstructure:"branchId"`
	TableNumber   int         `json:"tableNumber" mapstructure:"tableNumber"`
	Items         []OrderItem `json:"items" mapstructure:"items"`
	Total         float64     `json:"total" mapstructure:"total"`
	Status        string      `json:"status" mapstructure:"status"`
	CreatedAt     int64       `json:"createdAt" mapstructure:"createdAt"` // epoch milliseconds
	PaymentMethod string      `json:"paymentMethod" mapstructure:"paymentMethod"`
	Note          string      `json:"note,omitempty" mapstructure:"note"`
}

// Elapsed reports how long the order has existed relative to now, for the
// kitchen display's elapsed-time column.
func (o Order) Elapsed(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(o.CreatedAt))
}

// Terminal reports whether no further status transition may leave o.
func (o Order) Terminal() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusCancelled
}

func (o Order) FillDefaults() Order {
	if o.Status == "" {
		o.Status = OrderStatusNew
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentMethodCash
	}
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
	return o
}
