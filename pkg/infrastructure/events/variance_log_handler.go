package events

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// VarianceLogHandler writes a warning for every detected variance line
type VarianceLogHandler struct {
	logger *logrus.Logger
}

func NewVarianceLogHandler(logger *logrus.Logger) *VarianceLogHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &VarianceLogHandler{logger: logger}
}

func (h *VarianceLogHandler) CanHandle(eventType string) bool {
	return eventType == VarianceDetectedEvent
}

func (h *VarianceLogHandler) Handle(event Event) error {
	detected, ok := event.Data().(VarianceDetected)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Data(), event.Type())
	}

	h.logger.WithFields(logrus.Fields{
		"received_record_id": detected.ReceivedRecordID,
		"purchase_order_id":  detected.PurchaseOrderID,
		"item_name":          detected.Line.ItemName,
		"status":             detected.Line.Status.String(),
		"ordered_qty":        detected.Line.OrderedQty,
		"received_qty":       detected.Line.ReceivedQty,
		"variance":           detected.Line.Variance,
	}).Warn("variance detected")
	return nil
}
