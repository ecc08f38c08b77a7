package order

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoBranch         = errors.New("no branch selected")
	ErrNoTable          = errors.New("no table number bound to the session")
	ErrInvalidPayment   = errors.New("payment method must be CASH or TRANSFER")
	ErrUnknownMenuItem  = errors.New("cart references an unknown menu item")
	ErrInvalidQuantity  = errors.New("line quantity must be a positive number")
	ErrOrderNotFound    = errors.New("order not found")
	ErrNotConfirmed     = errors.New("destructive action was not confirmed")
	ErrOrderNotEditable = errors.New("order is in a terminal state and cannot be edited")
)

// ToppingBoundsError reports a topping-group selection count outside the
// group's min/max bounds. The builder re-checks this even though the
// selection UI should have enforced it; submission is a trust boundary.
type ToppingBoundsError struct {
	GroupID   string
	GroupName string
	Min       int
	Max       int
	Chosen    int
}

func (e *ToppingBoundsError) Error() string {
	return fmt.Sprintf("topping group %q requires between %d and %d selections, got %d",
		e.GroupName, e.Min, e.Max, e.Chosen)
}

// TransitionError reports a status transition outside the allowed edge
// set, or one requested by a role that may not trigger it.
type TransitionError struct {
	From string
	To   string
	Role string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s is not allowed for role %s", e.From, e.To, e.Role)
}
