package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/receiving/pkg/application/dto"
	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/repositories"
	"github.com/vsinha/receiving/pkg/domain/services/reconciliation"
	"github.com/vsinha/receiving/pkg/infrastructure/events"
	"github.com/vsinha/receiving/pkg/infrastructure/logging"
)

const moduleName = "receiving_service"

// ReceivingService matches received records against purchase orders and
// persists the variance report
type ReceivingService struct {
	purchaseOrders  repositories.PurchaseOrderRepository
	receivedRecords repositories.ReceivedRecordRepository
	recorder        repositories.MatchRecorder
	reconciler      *reconciliation.Reconciler
	eventStore      events.EventStore
	logger          *logrus.Logger
}

// NewReceivingService wires a ReceivingService. eventStore may be nil when
// no one listens for match events; a nil logger uses the logrus default.
func NewReceivingService(
	purchaseOrders repositories.PurchaseOrderRepository,
	receivedRecords repositories.ReceivedRecordRepository,
	recorder repositories.MatchRecorder,
	reconciler *reconciliation.Reconciler,
	eventStore events.EventStore,
	logger *logrus.Logger,
) *ReceivingService {
	if reconciler == nil {
		reconciler = reconciliation.NewReconciler()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReceivingService{
		purchaseOrders:  purchaseOrders,
		receivedRecords: receivedRecords,
		recorder:        recorder,
		reconciler:      reconciler,
		eventStore:      eventStore,
		logger:          logger,
	}
}

// ReconcileAndSave reconciles a received record against a purchase order and
// stores the merged variance document. On any error nothing is written.
func (s *ReceivingService) ReconcileAndSave(ctx context.Context, receivedID, poID string) (*dto.MatchOutcome, error) {
	data := map[string]string{"received_record_id": receivedID, "purchase_order_id": poID}

	record, err := s.receivedRecords.GetReceivedRecord(ctx, receivedID)
	if err != nil {
		err = fmt.Errorf("load received record %s: %w", receivedID, err)
		logging.LogError(s.logger, moduleName, "ReconcileAndSave", "fetch received record", data, err)
		return nil, err
	}

	po, err := s.purchaseOrders.GetPurchaseOrder(ctx, poID)
	if err != nil {
		err = fmt.Errorf("load purchase order %s: %w", poID, err)
		logging.LogError(s.logger, moduleName, "ReconcileAndSave", "fetch purchase order", data, err)
		return nil, err
	}

	result := s.reconciler.Reconcile(po.Items, record.Items)
	document := reconciliation.MergeResult(record.VarianceData, po.Descriptor(), result)

	err = s.recorder.SaveMatch(ctx, repositories.MatchCommit{
		ReceivedRecordID: record.ID,
		PurchaseOrderID:  po.ID,
		VarianceData:     document,
	})
	if err != nil {
		err = fmt.Errorf("save match %s -> %s: %w", receivedID, poID, err)
		logging.LogError(s.logger, moduleName, "ReconcileAndSave", "save match", data, err)
		return nil, err
	}

	s.publish(record.ID, po.ID, result)

	s.logger.WithFields(logrus.Fields{
		"received_record_id": record.ID,
		"purchase_order_id":  po.ID,
		"matched":            result.Summary.Matched,
		"short":              result.Summary.Short,
		"over":               result.Summary.Over,
		"missing":            result.Summary.Missing,
		"extra":              result.Summary.Extra,
	}).Info("received record matched")

	return &dto.MatchOutcome{
		ReceivedRecordID: record.ID,
		PurchaseOrder:    po.Descriptor(),
		Result:           result,
		Document:         document,
	}, nil
}

// ReconcilePending matches every pending received record that names its
// purchase order. A failed match is logged and counted; the pass continues.
func (s *ReceivingService) ReconcilePending(ctx context.Context) (*dto.PendingRun, error) {
	pending, err := s.receivedRecords.ListPendingMatches(ctx)
	if err != nil {
		err = fmt.Errorf("list pending matches: %w", err)
		logging.LogError(s.logger, moduleName, "ReconcilePending", "list pending matches", nil, err)
		return nil, err
	}

	run := &dto.PendingRun{}
	for _, match := range pending {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		run.Attempted++
		if _, err := s.ReconcileAndSave(ctx, match.ReceivedRecordID, match.PurchaseOrderID); err != nil {
			run.Failures = append(run.Failures, dto.MatchFailure{
				ReceivedRecordID: match.ReceivedRecordID,
				PurchaseOrderID:  match.PurchaseOrderID,
				Err:              err,
			})
			continue
		}
		run.Matched++
	}

	if run.Attempted > 0 {
		s.logger.WithFields(logrus.Fields{
			"attempted": run.Attempted,
			"matched":   run.Matched,
			"failed":    len(run.Failures),
		}).Info("pending reconciliation pass finished")
	}

	return run, nil
}

// Variance returns the stored variance document of a received record
func (s *ReceivingService) Variance(ctx context.Context, receivedID string) (entities.VarianceDocument, error) {
	record, err := s.receivedRecords.GetReceivedRecord(ctx, receivedID)
	if err != nil {
		return nil, fmt.Errorf("load received record %s: %w", receivedID, err)
	}
	if record.VarianceData == nil {
		return entities.VarianceDocument{}, nil
	}
	return record.VarianceData, nil
}

// publish emits match events after a successful save. Publishing failures
// are logged only; the match is already committed.
func (s *ReceivingService) publish(receivedID, poID string, result entities.ReconciliationResult) {
	if s.eventStore == nil {
		return
	}

	if err := s.eventStore.AppendEvent(receivedID, events.NewReceivingMatchedEvent(receivedID, poID, result.Summary)); err != nil {
		s.logger.WithError(err).Warn("failed to publish receiving matched event")
	}

	for _, line := range result.Items {
		if line.Status == entities.StatusMatch {
			continue
		}
		if err := s.eventStore.AppendEvent(receivedID, events.NewVarianceDetectedEvent(receivedID, poID, line)); err != nil {
			s.logger.WithError(err).Warn("failed to publish variance detected event")
		}
	}
}
