package triggers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phongtro-app/notify-service/internal/logger"
	"github.com/phongtro-app/notify-service/internal/metrics"
)

// Router maps inbound change events to composers by a static routing table of
// document-path patterns. Composer errors are logged, never surfaced: the
// trigger source has no caller waiting for a response.
type Router struct {
	status  *StatusChangeComposer
	price   *PriceChangeComposer
	message *NewMessageComposer
	logger  *logger.Logger
	routes  []route
}

type route struct {
	name    string
	pattern string
	kind    ChangeKind
	handle  func(ctx context.Context, params map[string]string, ev ChangeEvent) error
}

func NewRouter(notifier Notifier, store DomainStore, log *logger.Logger) *Router {
	r := &Router{
		status:  NewStatusChangeComposer(notifier, log),
		price:   NewPriceChangeComposer(notifier, store, log),
		message: NewNewMessageComposer(notifier, store, log),
		logger:  log,
	}

	r.routes = []route{
		{
			name:    "room_update",
			pattern: "rooms/{roomId}",
			kind:    ChangeUpdate,
			handle:  r.handleRoomUpdate,
		},
		{
			name:    "message_create",
			pattern: "conversations/{convId}/messages/{msgId}",
			kind:    ChangeCreate,
			handle:  r.handleMessageCreate,
		},
	}

	return r
}

// Dispatch routes one change event. Unmatched events are acknowledged and
// dropped.
func (r *Router) Dispatch(ctx context.Context, ev ChangeEvent) {
	log := r.logger.WithContext(ctx).WithComponent("trigger-router")

	for _, rt := range r.routes {
		if rt.kind != ev.Kind {
			continue
		}

		params, ok := matchPattern(rt.pattern, ev.Document)
		if !ok {
			continue
		}

		metrics.TriggerEvents.WithLabelValues(rt.name).Inc()

		if err := rt.handle(ctx, params, ev); err != nil {
			log.Error("trigger handling failed",
				slog.String("route", rt.name),
				slog.String("document", ev.Document),
				slog.String("error", err.Error()))
		}
		return
	}

	metrics.TriggerEvents.WithLabelValues("unmatched").Inc()
	log.Debug("no route for change event",
		slog.String("document", ev.Document),
		slog.String("kind", string(ev.Kind)))
}

// handleRoomUpdate runs both room composers; each decides independently
// whether its condition fired.
func (r *Router) handleRoomUpdate(ctx context.Context, params map[string]string, ev ChangeEvent) error {
	roomID := params["roomId"]
	ctx = logger.WithRoomID(ctx, roomID)
	log := r.logger.WithContext(ctx).WithComponent("trigger-router")

	before, err := decodeRoom(ev.Before)
	if err != nil {
		return err
	}
	after, err := decodeRoom(ev.After)
	if err != nil {
		return err
	}

	if err := r.status.Handle(ctx, roomID, before, after); err != nil {
		log.Error("status change composer failed",
			slog.String("error", err.Error()))
	}

	if err := r.price.Handle(ctx, roomID, before, after); err != nil {
		log.Error("price change composer failed",
			slog.String("error", err.Error()))
	}

	return nil
}

func (r *Router) handleMessageCreate(ctx context.Context, params map[string]string, ev ChangeEvent) error {
	msg, err := decodeMessage(ev.After)
	if err != nil {
		return err
	}

	return r.message.Handle(ctx, params["convId"], params["msgId"], msg)
}

// matchPattern matches a document path against a pattern like
// "conversations/{convId}/messages/{msgId}", extracting the parameters.
func matchPattern(pattern, document string) (map[string]string, bool) {
	patternSegs := strings.Split(pattern, "/")
	docSegs := strings.Split(document, "/")

	if len(patternSegs) != len(docSegs) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range patternSegs {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if docSegs[i] == "" {
				return nil, false
			}
			params[strings.Trim(seg, "{}")] = docSegs[i]
			continue
		}

		if seg != docSegs[i] {
			return nil, false
		}
	}

	return params, true
}
