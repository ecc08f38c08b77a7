package order

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/internal/pricing"
	"github.com/hnquoc/tableserve/internal/store"
	"github.com/hnquoc/tableserve/internal/syncer"
)

// Confirmer is the two-step confirmation gate for destructive actions:
// the service presents a prompt and waits for a confirm/cancel answer
// before any write happens. Closing the dialog (false, nil) abandons the
// action with no partial write.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Service persists order mutations against the shared store. Every write
// follows the platform discipline: read the full order collection, mutate
// it in memory, replace the whole collection. The store offers no
// compare-and-swap, so two writers racing on stale reads lose updates;
// that gap is inherited from the store contract and deliberately not
// papered over here.
type Service struct {
	store store.Store
	log   *zap.Logger
}

func NewService(st store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, log: log}
}

func (s *Service) readOrders(ctx context.Context) ([]models.Order, error) {
	doc, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read order collection: %w", err)
	}
	return syncer.SanitizeOrders(doc[models.PathOrders]), nil
}

func (s *Service) writeOrders(ctx context.Context, orders []models.Order) error {
	if err := s.store.ReplaceSubtree(ctx, models.PathOrders, orders); err != nil {
		return fmt.Errorf("failed to write order collection: %w", err)
	}
	return nil
}

// Submit prepends the new order to the collection and writes the whole
// list back.
func (s *Service) Submit(ctx context.Context, o models.Order) error {
	orders, err := s.readOrders(ctx)
	if err != nil {
		return err
	}

	orders = append([]models.Order{o}, orders...)
	if err := s.writeOrders(ctx, orders); err != nil {
		return err
	}

	s.log.Info("order submitted",
		zap.String("orderId", o.ID),
		zap.String("branchId", o.BranchID),
		zap.Int("table", o.TableNumber),
		zap.Float64("total", o.Total),
	)
	return nil
}

// Transition applies one status change to the order with the given id.
// Cancellations pass the confirmation gate first; an unconfirmed request
// aborts with ErrNotConfirmed and no write.
func (s *Service) Transition(ctx context.Context, orderID, target, role string, confirm Confirmer) (models.Order, error) {
	if RequiresConfirmation(target) {
		if confirm == nil {
			return models.Order{}, ErrNotConfirmed
		}
		ok, err := confirm.Confirm(ctx, fmt.Sprintf("Cancel order %s? This cannot be undone.", orderID))
		if err != nil {
			return models.Order{}, err
		}
		if !ok {
			return models.Order{}, ErrNotConfirmed
		}
	}

	orders, err := s.readOrders(ctx)
	if err != nil {
		return models.Order{}, err
	}

	updated := models.Order{}
	found := false
	for i, o := range orders {
		if o.ID != orderID {
			continue
		}
		updated, err = Transition(o, target, role)
		if err != nil {
			return models.Order{}, err
		}
		orders[i] = updated
		found = true
		break
	}
	if !found {
		return models.Order{}, ErrOrderNotFound
	}

	if err := s.writeOrders(ctx, orders); err != nil {
		return models.Order{}, err
	}

	s.log.Info("order transitioned",
		zap.String("orderId", orderID),
		zap.String("status", target),
		zap.String("role", role),
	)
	return updated, nil
}

// UpdateItems replaces the line items of an order still in NEW or
// COMPLETED state, recomputing the total from scratch. The stored total is
// never trusted after a line mutation.
func (s *Service) UpdateItems(ctx context.Context, orderID string, items []models.OrderItem) (models.Order, error) {
	return s.edit(ctx, orderID, func(o models.Order) models.Order {
		o.Items = items
		o.Total = pricing.OrderTotal(items)
		return o
	})
}

// SetTable moves an order to another table (admin override).
func (s *Service) SetTable(ctx context.Context, orderID string, table int) (models.Order, error) {
	return s.edit(ctx, orderID, func(o models.Order) models.Order {
		o.TableNumber = table
		return o
	})
}

func (s *Service) edit(ctx context.Context, orderID string, mutate func(models.Order) models.Order) (models.Order, error) {
	orders, err := s.readOrders(ctx)
	if err != nil {
		return models.Order{}, err
	}

	for i, o := range orders {
		if o.ID != orderID {
			continue
		}
		if o.Terminal() {
			return models.Order{}, ErrOrderNotEditable
		}
		orders[i] = mutate(o)
		if err := s.writeOrders(ctx, orders); err != nil {
			return models.Order{}, err
		}
		return orders[i], nil
	}
	return models.Order{}, ErrOrderNotFound
}

// ResetOrders clears the whole order collection. This is the only way
// orders ever disappear; it is gated by the same confirmation capability
// as cancellations.
func (s *Service) ResetOrders(ctx context.Context, confirm Confirmer) error {
	if confirm == nil {
		return ErrNotConfirmed
	}
	ok, err := confirm.Confirm(ctx, "Delete ALL orders? This cannot be undone.")
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotConfirmed
	}

	if err := s.writeOrders(ctx, []models.Order{}); err != nil {
		return err
	}
	s.log.Warn("order collection reset")
	return nil
}
