package notify

import (
	"context"
	"fmt"
	"log/slog"

	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"

	"github.com/phongtro-app/notify-service/internal/logger"
	"github.com/phongtro-app/notify-service/internal/metrics"
)

// Dispatcher performs a multicast push send and reports one outcome per
// endpoint.
type Dispatcher interface {
	Send(ctx context.Context, endpoints []Endpoint, payload Payload) (DispatchResult, error)
}

// multicastSender is the slice of the FCM client the dispatcher depends on.
type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMDispatcher sends push notifications via Firebase Cloud Messaging.
type FCMDispatcher struct {
	client  multicastSender
	logger  *logger.Logger
	enabled bool
}

func NewFCMDispatcher(client *messaging.Client, logger *logger.Logger, enabled bool) *FCMDispatcher {
	return &FCMDispatcher{
		client:  client,
		logger:  logger,
		enabled: enabled,
	}
}

// Send delivers the payload to every endpoint in one multicast call. An empty
// endpoint list short-circuits to a zero result without contacting FCM. An
// error return means the dispatch failed as a whole; per-endpoint failures are
// reported in the result instead.
func (d *FCMDispatcher) Send(ctx context.Context, endpoints []Endpoint, payload Payload) (DispatchResult, error) {
	log := d.logger.WithContext(ctx).WithComponent("push-dispatcher")

	if len(endpoints) == 0 {
		return DispatchResult{}, nil
	}

	if !d.enabled {
		log.Debug("push notifications disabled, skipping",
			slog.Int("endpoint_count", len(endpoints)))
		return DispatchResult{}, nil
	}

	tokens := make([]string, len(endpoints))
	for i, ep := range endpoints {
		tokens[i] = ep.Token
	}

	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data:   payload.Data,
		Tokens: tokens,
	}

	resp, err := d.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("multicast send failed: %w", err)
	}

	result := DispatchResult{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
		PerEndpoint:  make([]EndpointResult, len(endpoints)),
	}

	for i, sr := range resp.Responses {
		entry := EndpointResult{
			Token:   endpoints[i].Token,
			Success: sr.Success,
		}

		if !sr.Success {
			entry.Kind = classify(sr.Error)
			entry.Err = sr.Error
			metrics.PushFailed.WithLabelValues(string(entry.Kind)).Inc()
		} else {
			metrics.PushSent.Inc()
		}

		result.PerEndpoint[i] = entry
	}

	log.Info("multicast send completed",
		slog.Int("endpoint_count", len(endpoints)),
		slog.Int("successful", result.SuccessCount),
		slog.Int("failed", result.FailureCount))

	return result, nil
}

// classify maps an FCM per-endpoint error to an ErrorKind. Only errors that
// mark the token as no longer a registered destination count as permanent;
// everything else must not trigger deletion.
func classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindUnknown
	case messaging.IsUnregistered(err), errorutils.IsInvalidArgument(err):
		return ErrorKindPermanentInvalid
	case messaging.IsUnavailable(err), messaging.IsInternal(err), messaging.IsQuotaExceeded(err):
		return ErrorKindTransient
	default:
		return ErrorKindUnknown
	}
}
