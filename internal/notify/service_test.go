package notify

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phongtro-app/notify-service/internal/logger"
)

type fakeDirectory struct {
	mu            sync.Mutex
	endpoints     []Endpoint
	listErr       error
	removed       []string
	removeErr     error
	removedSignal chan string
}

func (d *fakeDirectory) ListEndpoints(ctx context.Context, userID string) ([]Endpoint, error) {
	return d.endpoints, d.listErr
}

func (d *fakeDirectory) RemoveEndpoint(ctx context.Context, userID, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.removeErr != nil {
		return d.removeErr
	}

	d.removed = append(d.removed, token)
	if d.removedSignal != nil {
		d.removedSignal <- token
	}
	return nil
}

func (d *fakeDirectory) removedTokens() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.removed...)
}

type fakeRecords struct {
	mu      sync.Mutex
	created []Record
	err     error
}

func (r *fakeRecords) Create(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}

	r.created = append(r.created, rec)
	return nil
}

func (r *fakeRecords) createdRecords() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.created...)
}

type fakeDispatcher struct {
	calls         int
	lastEndpoints []Endpoint
	result        DispatchResult
	err           error
}

func (d *fakeDispatcher) Send(ctx context.Context, endpoints []Endpoint, payload Payload) (DispatchResult, error) {
	d.calls++
	d.lastEndpoints = endpoints
	return d.result, d.err
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: slog.LevelError})
}

func newTestService(d Directory, r RecordStore, dp Dispatcher) *Service {
	log := newTestLogger()
	return &Service{
		directory:  d,
		records:    r,
		dispatcher: dp,
		hygiene:    NewHygiene(d, log),
		logger:     log,
	}
}

func TestNotifyWritesRecordThenDispatches(t *testing.T) {
	dir := &fakeDirectory{endpoints: []Endpoint{
		{Token: "tok-1", OwnerID: "user-1"},
		{Token: "tok-2", OwnerID: "user-1"},
	}}
	recs := &fakeRecords{}
	disp := &fakeDispatcher{result: DispatchResult{SuccessCount: 2}}

	s := newTestService(dir, recs, disp)

	err := s.Notify(context.Background(), "user-1", Notification{
		Type:  TypeRoomApproved,
		Title: "title",
		Body:  "body",
		Data:  map[string]string{"roomId": "room-1"},
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	created := recs.createdRecords()
	if len(created) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(created))
	}
	if created[0].UserID != "user-1" || created[0].Type != TypeRoomApproved {
		t.Errorf("Unexpected record: %+v", created[0])
	}
	if created[0].IsRead {
		t.Error("Expected record to be created unread")
	}

	if disp.calls != 1 {
		t.Fatalf("Expected 1 dispatch call, got %d", disp.calls)
	}
	if len(disp.lastEndpoints) != 2 {
		t.Errorf("Expected dispatch to all 2 endpoints, got %d", len(disp.lastEndpoints))
	}
}

func TestNotifySkipsDispatchWithoutEndpoints(t *testing.T) {
	dir := &fakeDirectory{}
	recs := &fakeRecords{}
	disp := &fakeDispatcher{}

	s := newTestService(dir, recs, disp)

	if err := s.Notify(context.Background(), "user-1", Notification{Type: TypeTest, Title: "t", Body: "b"}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if disp.calls != 0 {
		t.Errorf("Expected no dispatch calls, got %d", disp.calls)
	}
	if len(recs.createdRecords()) != 1 {
		t.Errorf("Expected record to be created even without endpoints")
	}
}

func TestNotifyDispatchErrorKeepsRecord(t *testing.T) {
	dir := &fakeDirectory{endpoints: []Endpoint{{Token: "tok-1", OwnerID: "user-1"}}}
	recs := &fakeRecords{}
	disp := &fakeDispatcher{err: context.DeadlineExceeded}

	s := newTestService(dir, recs, disp)

	err := s.Notify(context.Background(), "user-1", Notification{Type: TypeTest, Title: "t", Body: "b"})
	if err == nil {
		t.Fatal("Expected dispatch error to propagate")
	}

	if len(recs.createdRecords()) != 1 {
		t.Errorf("Expected record to survive dispatch failure")
	}
}

func TestNotifyPrunesPermanentlyInvalidEndpoints(t *testing.T) {
	dir := &fakeDirectory{
		endpoints: []Endpoint{
			{Token: "good", OwnerID: "user-1"},
			{Token: "dead", OwnerID: "user-1"},
		},
		removedSignal: make(chan string, 2),
	}
	recs := &fakeRecords{}
	disp := &fakeDispatcher{result: DispatchResult{
		SuccessCount: 1,
		FailureCount: 1,
		PerEndpoint: []EndpointResult{
			{Token: "good", Success: true},
			{Token: "dead", Success: false, Kind: ErrorKindPermanentInvalid},
		},
	}}

	s := newTestService(dir, recs, disp)

	if err := s.Notify(context.Background(), "user-1", Notification{Type: TypeTest, Title: "t", Body: "b"}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	select {
	case token := <-dir.removedSignal:
		if token != "dead" {
			t.Errorf("Expected token 'dead' to be removed, got %q", token)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for prune")
	}

	removed := dir.removedTokens()
	if len(removed) != 1 {
		t.Errorf("Expected exactly 1 token removed, got %v", removed)
	}
}

func TestNotifyTwiceCreatesTwoRecords(t *testing.T) {
	// No deduplication: identical invocations append independent records.
	dir := &fakeDirectory{}
	recs := &fakeRecords{}
	disp := &fakeDispatcher{}

	s := newTestService(dir, recs, disp)

	n := Notification{Type: TypeTest, Title: "t", Body: "b"}
	for i := 0; i < 2; i++ {
		if err := s.Notify(context.Background(), "user-1", n); err != nil {
			t.Fatalf("Notify call %d failed: %v", i+1, err)
		}
	}

	if got := len(recs.createdRecords()); got != 2 {
		t.Errorf("Expected 2 independent records, got %d", got)
	}
}
