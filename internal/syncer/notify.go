package syncer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hnquoc/tableserve/internal/models"
)

// LogNotifier renders the ready notification as a log line plus a
// terminal bell, the closest a headless client gets to sound and
// vibration.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) OrderReady(order models.Order) {
	fmt.Print("\a")
	n.log.Info("order ready",
		zap.String("orderId", order.ID),
		zap.Int("table", order.TableNumber),
		zap.Float64("total", order.Total),
	)
}
