package syncer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/internal/output"
	"github.com/hnquoc/tableserve/internal/store"
)

const (
	TopicOrderPlaced        = "order_placed_events"
	TopicOrderStatusChanged = "order_status_events"
)

// orderPlacedEvent and orderStatusEvent are the lifecycle records emitted
// to the configured sinks for every observed change, whichever client
// caused it.
type orderPlacedEvent struct {
	Timestamp   int64   `json:"timestamp"`
	EventType   string  `json:"eventType"`
	OrderID     string  `json:"orderId"`
	BranchID    string  `json:"branchId"`
	TableNumber int     `json:"tableNumber"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
}

type orderStatusEvent struct {
	Timestamp  int64  `json:"timestamp"`
	EventType  string `json:"eventType"`
	OrderID    string `json:"orderId"`
	BranchID   string `json:"branchId"`
	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
}

// Notifier presents the one-shot "order ready" signal to the customer
// (audio plus vibration where the surface supports it).
type Notifier interface {
	OrderReady(order models.Order)
}

// Archiver keeps a durable copy of order snapshots outside the realtime
// store. The reconciler feeds it every newly observed or transitioned
// order; archive failures are logged, never surfaced, since the store
// stays the source of truth.
type Archiver interface {
	ArchiveOrder(ctx context.Context, o models.Order) error
}

// Reconciler subscribes to the store and maintains the typed snapshot
// every role view reads. It retains the previous order list and diffs by
// id on each push to detect externally-caused transitions.
type Reconciler struct {
	store    store.Store
	notifier Notifier
	sink     output.Destination
	archiver Archiver
	log      *zap.Logger

	mu         sync.RWMutex
	snap       Snapshot
	lastStatus map[string]string
	myOrderID  string
	primed     bool
}

func NewReconciler(st store.Store, notifier Notifier, sink output.Destination, archiver Archiver, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		store:      st,
		notifier:   notifier,
		sink:       sink,
		archiver:   archiver,
		log:        log,
		lastStatus: make(map[string]string),
	}
}

// Run consumes pushes until ctx is cancelled. Each push replaces the
// snapshot wholesale; there is no merge with prior local state.
func (r *Reconciler) Run(ctx context.Context) error {
	pushes, err := r.store.Subscribe(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case doc, ok := <-pushes:
			if !ok {
				return nil
			}
			r.Apply(doc)
		}
	}
}

// Apply ingests one full-document push. Exposed separately from Run so
// tests and synchronous callers can drive the reconciler directly.
func (r *Reconciler) Apply(doc store.Document) {
	snap := SanitizeDocument(doc)

	r.mu.Lock()
	prev := r.lastStatus
	next := make(map[string]string, len(snap.Orders))
	for _, o := range snap.Orders {
		next[o.ID] = o.Status
	}
	primed := r.primed
	myOrderID := r.myOrderID
	r.snap = snap
	r.lastStatus = next
	r.primed = true
	r.mu.Unlock()

	// The first push seeds the comparison state; nothing in it is a
	// transition.
	if !primed {
		return
	}

	for _, o := range snap.Orders {
		prevStatus, known := prev[o.ID]
		switch {
		case !known:
			r.emit(TopicOrderPlaced, orderPlacedEvent{
				Timestamp:   time.Now().UnixMilli(),
				EventType:   "order_placed",
				OrderID:     o.ID,
				BranchID:    o.BranchID,
				TableNumber: o.TableNumber,
				Total:       o.Total,
				Status:      o.Status,
			})
			r.archive(o)
		case prevStatus != o.Status:
			r.emit(TopicOrderStatusChanged, orderStatusEvent{
				Timestamp:  time.Now().UnixMilli(),
				EventType:  "order_status_changed",
				OrderID:    o.ID,
				BranchID:   o.BranchID,
				FromStatus: prevStatus,
				ToStatus:   o.Status,
			})
			r.archive(o)
			if o.ID == myOrderID &&
				prevStatus == models.OrderStatusNew &&
				o.Status == models.OrderStatusCompleted &&
				r.notifier != nil {
				r.notifier.OrderReady(o)
			}
		}
	}
}

func (r *Reconciler) archive(o models.Order) {
	if r.archiver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.archiver.ArchiveOrder(ctx, o); err != nil {
		r.log.Warn("failed to archive order",
			zap.String("orderId", o.ID), zap.Error(err))
	}
}

func (r *Reconciler) emit(topic string, event interface{}) {
	if r.sink == nil {
		return
	}
	msg, err := json.Marshal(event)
	if err != nil {
		r.log.Error("failed to encode lifecycle event", zap.Error(err))
		return
	}
	if err := r.sink.WriteMessage(topic, msg); err != nil {
		r.log.Warn("failed to emit lifecycle event",
			zap.String("topic", topic), zap.Error(err))
	}
}

// Snapshot returns the latest sanitized projection.
func (r *Reconciler) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// TrackOrder points the ready-notification at the customer's own order.
func (r *Reconciler) TrackOrder(orderID string) {
	r.mu.Lock()
	r.myOrderID = orderID
	r.mu.Unlock()
}

// AcknowledgeReady clears the tracked order after the customer dismisses
// the notification; later transitions for that id no longer notify.
func (r *Reconciler) AcknowledgeReady() {
	r.mu.Lock()
	r.myOrderID = ""
	r.mu.Unlock()
}

// TrackedOrder returns the current my-order pointer, empty when cleared.
func (r *Reconciler) TrackedOrder() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.myOrderID
}
