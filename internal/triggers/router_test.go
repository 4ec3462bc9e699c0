package triggers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/phongtro-app/notify-service/internal/notify"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		document string
		want     map[string]string
		ok       bool
	}{
		{
			name:     "room document",
			pattern:  "rooms/{roomId}",
			document: "rooms/room-1",
			want:     map[string]string{"roomId": "room-1"},
			ok:       true,
		},
		{
			name:     "nested message document",
			pattern:  "conversations/{convId}/messages/{msgId}",
			document: "conversations/conv-1/messages/msg-9",
			want:     map[string]string{"convId": "conv-1", "msgId": "msg-9"},
			ok:       true,
		},
		{
			name:     "segment count mismatch",
			pattern:  "rooms/{roomId}",
			document: "rooms/room-1/photos/p-1",
			ok:       false,
		},
		{
			name:     "literal mismatch",
			pattern:  "rooms/{roomId}",
			document: "users/u-1",
			ok:       false,
		},
		{
			name:     "empty parameter segment",
			pattern:  "rooms/{roomId}",
			document: "rooms/",
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := matchPattern(tt.pattern, tt.document)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			for k, v := range tt.want {
				if params[k] != v {
					t.Errorf("expected %s=%q, got %q", k, v, params[k])
				}
			}
		})
	}
}

func TestDispatchRoomUpdateRunsComposers(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{}
	r := NewRouter(notifier, store, newTestLogger())

	before, _ := json.Marshal(map[string]any{"title": "Phòng quận 1", "status": "pending", "ownerId": "owner-1"})
	after, _ := json.Marshal(map[string]any{"title": "Phòng quận 1", "status": "active", "ownerId": "owner-1"})

	r.Dispatch(context.Background(), ChangeEvent{
		Document: "rooms/room-1",
		Kind:     ChangeUpdate,
		Before:   before,
		After:    after,
	})

	sent := notifier.sentTo()
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	if sent[0].N.Type != notify.TypeRoomApproved {
		t.Errorf("expected room approved notification, got %s", sent[0].N.Type)
	}
}

func TestDispatchMessageCreateRoutes(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{
		conversation: &Conversation{ParticipantIDs: []string{"a", "b"}},
	}
	r := NewRouter(notifier, store, newTestLogger())

	after, _ := json.Marshal(map[string]any{"senderId": "a", "content": "xin chào"})

	r.Dispatch(context.Background(), ChangeEvent{
		Document: "conversations/conv-1/messages/msg-1",
		Kind:     ChangeCreate,
		After:    after,
	})

	sent := notifier.sentTo()
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	if sent[0].UserID != "b" {
		t.Errorf("expected recipient b, got %s", sent[0].UserID)
	}
	if sent[0].N.Data["conversationId"] != "conv-1" {
		t.Errorf("expected conversationId from path, got %v", sent[0].N.Data)
	}
}

func TestDispatchKindMismatchIsUnmatched(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{}
	r := NewRouter(notifier, store, newTestLogger())

	after, _ := json.Marshal(map[string]any{"status": "active", "ownerId": "owner-1"})

	// Room events only route on update, not create.
	r.Dispatch(context.Background(), ChangeEvent{
		Document: "rooms/room-1",
		Kind:     ChangeCreate,
		After:    after,
	})

	if got := len(notifier.sentTo()); got != 0 {
		t.Errorf("expected no notifications for unrouted kind, got %d", got)
	}
}

func TestDispatchUnknownDocumentIsDropped(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{}
	r := NewRouter(notifier, store, newTestLogger())

	r.Dispatch(context.Background(), ChangeEvent{
		Document: "users/u-1",
		Kind:     ChangeUpdate,
	})

	if got := len(notifier.sentTo()); got != 0 {
		t.Errorf("expected no notifications for unknown document, got %d", got)
	}
}

func TestDispatchComposerErrorDoesNotPanic(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{convErr: errStoreDown}
	r := NewRouter(notifier, store, newTestLogger())

	after, _ := json.Marshal(map[string]any{"senderId": "a", "content": "hi"})

	// Errors are logged and swallowed; Dispatch has no error return.
	r.Dispatch(context.Background(), ChangeEvent{
		Document: "conversations/conv-1/messages/msg-1",
		Kind:     ChangeCreate,
		After:    after,
	})
}
