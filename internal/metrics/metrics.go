package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TriggerEvents counts inbound change events by matched route.
	TriggerEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_trigger_events_total",
		Help: "Inbound Firestore change events by route.",
	}, []string{"route"})

	// RecordsCreated counts notification documents written, by notification type.
	RecordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_records_created_total",
		Help: "Notification documents written to Firestore by type.",
	}, []string{"type"})

	// PushSent counts per-endpoint push outcomes.
	PushSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notify_push_sent_total",
		Help: "Push messages accepted by FCM.",
	})

	// PushFailed counts per-endpoint push failures by classified kind.
	PushFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_push_failed_total",
		Help: "Push messages rejected by FCM, by error kind.",
	}, []string{"kind"})

	// TokensPruned counts endpoints removed after permanent delivery failures.
	TokensPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notify_tokens_pruned_total",
		Help: "Device tokens removed after permanent delivery failures.",
	})
)
