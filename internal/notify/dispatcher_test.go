package notify

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
)

type fakeMulticastSender struct {
	calls   int
	lastMsg *messaging.MulticastMessage
	resp    *messaging.BatchResponse
	err     error
}

func (f *fakeMulticastSender) SendEachForMulticast(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.calls++
	f.lastMsg = msg
	return f.resp, f.err
}

func newTestDispatcher(sender multicastSender, enabled bool) *FCMDispatcher {
	return &FCMDispatcher{
		client:  sender,
		logger:  newTestLogger(),
		enabled: enabled,
	}
}

func TestSendShortCircuitsOnEmptyEndpoints(t *testing.T) {
	sender := &fakeMulticastSender{}
	d := newTestDispatcher(sender, true)

	result, err := d.Send(context.Background(), nil, Payload{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if sender.calls != 0 {
		t.Errorf("Expected transport to never be contacted, got %d calls", sender.calls)
	}
	if result.SuccessCount != 0 || result.FailureCount != 0 || len(result.PerEndpoint) != 0 {
		t.Errorf("Expected zero result, got %+v", result)
	}
}

func TestSendDisabledSkipsTransport(t *testing.T) {
	sender := &fakeMulticastSender{}
	d := newTestDispatcher(sender, false)

	_, err := d.Send(context.Background(), []Endpoint{{Token: "tok-1"}}, Payload{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if sender.calls != 0 {
		t.Errorf("Expected transport to never be contacted when disabled, got %d calls", sender.calls)
	}
}

func TestSendMapsPerEndpointResultsInOrder(t *testing.T) {
	sender := &fakeMulticastSender{
		resp: &messaging.BatchResponse{
			SuccessCount: 1,
			FailureCount: 1,
			Responses: []*messaging.SendResponse{
				{Success: true, MessageID: "m1"},
				{Success: false, Error: errors.New("delivery failed")},
			},
		},
	}
	d := newTestDispatcher(sender, true)

	endpoints := []Endpoint{
		{Token: "tok-1", OwnerID: "user-1"},
		{Token: "tok-2", OwnerID: "user-1"},
	}

	result, err := d.Send(context.Background(), endpoints, Payload{Title: "t", Body: "b", Data: map[string]string{"k": "v"}})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(result.PerEndpoint) != 2 {
		t.Fatalf("Expected 2 per-endpoint entries, got %d", len(result.PerEndpoint))
	}
	if result.PerEndpoint[0].Token != "tok-1" || !result.PerEndpoint[0].Success {
		t.Errorf("Unexpected first entry: %+v", result.PerEndpoint[0])
	}
	if result.PerEndpoint[1].Token != "tok-2" || result.PerEndpoint[1].Success {
		t.Errorf("Unexpected second entry: %+v", result.PerEndpoint[1])
	}
	// An error the SDK cannot attribute stays unknown and is never grounds
	// for deletion.
	if result.PerEndpoint[1].Kind != ErrorKindUnknown {
		t.Errorf("Expected unknown error kind, got %q", result.PerEndpoint[1].Kind)
	}

	if result.SuccessCount != 1 || result.FailureCount != 1 {
		t.Errorf("Unexpected counts: %+v", result)
	}

	if len(sender.lastMsg.Tokens) != 2 || sender.lastMsg.Tokens[0] != "tok-1" {
		t.Errorf("Unexpected multicast tokens: %v", sender.lastMsg.Tokens)
	}
	if sender.lastMsg.Notification.Title != "t" || sender.lastMsg.Notification.Body != "b" {
		t.Errorf("Unexpected multicast notification: %+v", sender.lastMsg.Notification)
	}
}

func TestSendPropagatesTransportError(t *testing.T) {
	sender := &fakeMulticastSender{err: errors.New("transport unavailable")}
	d := newTestDispatcher(sender, true)

	_, err := d.Send(context.Background(), []Endpoint{{Token: "tok-1"}}, Payload{Title: "t", Body: "b"})
	if err == nil {
		t.Fatal("Expected transport error to propagate")
	}
}

func TestClassifyUnattributedErrors(t *testing.T) {
	tests := map[string]struct {
		err  error
		want ErrorKind
	}{
		"nil_error":   {err: nil, want: ErrorKindUnknown},
		"plain_error": {err: errors.New("boom"), want: ErrorKindUnknown},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := classify(tc.err); got != tc.want {
				t.Errorf("classify(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
