package order

import "github.com/hnquoc/tableserve/internal/models"

// edge is one allowed status transition together with the roles that may
// trigger it.
type edge struct {
	from, to string
}

var allowedEdges = map[edge][]string{
	{models.OrderStatusNew, models.OrderStatusCompleted}:       {models.RoleKitchen, models.RoleAdmin},
	{models.OrderStatusCompleted, models.OrderStatusPaid}:      {models.RoleAdmin},
	{models.OrderStatusNew, models.OrderStatusCancelled}:       {models.RoleAdmin},
	{models.OrderStatusCompleted, models.OrderStatusCancelled}: {models.RoleAdmin},
}

// Transition returns a copy of o with the target status applied, or a
// TransitionError when the edge does not exist or the role may not take
// it. PAID and CANCELLED are terminal; nothing leaves them.
func Transition(o models.Order, target, role string) (models.Order, error) {
	roles, ok := allowedEdges[edge{from: o.Status, to: target}]
	if !ok {
		return models.Order{}, &TransitionError{From: o.Status, To: target, Role: role}
	}
	for _, r := range roles {
		if r == role {
			o.Status = target
			return o, nil
		}
	}
	return models.Order{}, &TransitionError{From: o.Status, To: target, Role: role}
}

// RequiresConfirmation reports whether applying the transition must first
// pass the destructive-action confirmation gate.
func RequiresConfirmation(target string) bool {
	return target == models.OrderStatusCancelled
}
