package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phongtro-app/notify-service/internal/firebase"
	"github.com/phongtro-app/notify-service/internal/logger"
	"github.com/phongtro-app/notify-service/internal/metrics"
)

// Service is the uniform fan-out step applied per recipient: write the
// durable record, resolve the recipient's endpoints, push, then prune invalid
// endpoints outside the critical path.
type Service struct {
	directory  Directory
	records    RecordStore
	dispatcher Dispatcher
	hygiene    *Hygiene
	logger     *logger.Logger
}

// NewService wires the fan-out step onto the shared Firebase clients.
func NewService(fb *firebase.Client, logger *logger.Logger, pushEnabled bool) *Service {
	directory := NewFirestoreDirectory(fb.Firestore, logger)

	return &Service{
		directory:  directory,
		records:    NewFirestoreRecords(fb.Firestore),
		dispatcher: NewFCMDispatcher(fb.Messaging, logger, pushEnabled),
		hygiene:    NewHygiene(directory, logger),
		logger:     logger,
	}
}

// Notify delivers one notification to one recipient. The record write comes
// first and is never rolled back; a dispatch failure surfaces to the caller
// but the record stands. Every call appends a fresh record, so repeated
// identical calls produce independent records.
func (s *Service) Notify(ctx context.Context, userID string, n Notification) error {
	log := s.logger.WithContext(ctx).WithComponent("fanout")

	if err := s.records.Create(ctx, Record{
		UserID: userID,
		Type:   n.Type,
		Title:  n.Title,
		Body:   n.Body,
		Data:   n.Data,
		IsRead: false,
	}); err != nil {
		// The push is still worth attempting without the in-app record.
		log.Warn("failed to create notification record",
			slog.String("user_id", userID),
			slog.String("type", string(n.Type)),
			slog.String("error", err.Error()))
	} else {
		metrics.RecordsCreated.WithLabelValues(string(n.Type)).Inc()
	}

	endpoints, err := s.directory.ListEndpoints(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list endpoints: %w", err)
	}

	if len(endpoints) == 0 {
		log.Info("no registered endpoints, skipping push",
			slog.String("user_id", userID),
			slog.String("type", string(n.Type)))
		return nil
	}

	result, err := s.dispatcher.Send(ctx, endpoints, Payload{
		Title: n.Title,
		Body:  n.Body,
		Data:  n.Data,
	})
	if err != nil {
		return fmt.Errorf("push dispatch failed: %w", err)
	}

	// Pruning runs detached with its own error boundary; its failure is
	// non-fatal and must not extend the critical path.
	pruneCtx := context.WithoutCancel(ctx)
	go s.hygiene.PruneInvalid(pruneCtx, userID, result)

	return nil
}
