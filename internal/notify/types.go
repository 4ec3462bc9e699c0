package notify

import "time"

// Type represents the kind of notification being sent.
type Type string

const (
	TypeRoomApproved     Type = "room_approved"
	TypeRoomRejected     Type = "room_rejected"
	TypeRoomPriceChanged Type = "room_price_changed"
	TypeNewMessage       Type = "new_message"
	TypeTest             Type = "test"
)

// Endpoint is one registered device token for a user. A user may have many
// endpoints (multi-device); each endpoint belongs to exactly one user.
type Endpoint struct {
	Token   string
	OwnerID string
}

// Payload is the content pushed to devices.
type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notification is what a composer hands to the fan-out step: the durable
// record fields plus the push payload, for a single recipient.
type Notification struct {
	Type  Type
	Title string
	Body  string
	Data  map[string]string
}

// Record is the durable notification document written for in-app display.
// Immutable once created except isRead, which a UI action flips later.
type Record struct {
	UserID    string            `firestore:"userId"`
	Type      Type              `firestore:"type"`
	Title     string            `firestore:"title"`
	Body      string            `firestore:"body"`
	Data      map[string]string `firestore:"data"`
	IsRead    bool              `firestore:"isRead"`
	CreatedAt time.Time         `firestore:"createdAt,serverTimestamp"`
}

// ErrorKind classifies a per-endpoint delivery failure.
type ErrorKind string

const (
	// ErrorKindPermanentInvalid means the endpoint will never succeed again
	// and should be deleted.
	ErrorKindPermanentInvalid ErrorKind = "permanent_invalid"
	// ErrorKindTransient means the failure may resolve on its own. Never
	// grounds for deletion.
	ErrorKindTransient ErrorKind = "transient"
	// ErrorKindUnknown covers everything the transport did not classify.
	ErrorKindUnknown ErrorKind = "unknown"
)

// EndpointResult is the outcome of delivering to a single endpoint.
type EndpointResult struct {
	Token   string
	Success bool
	Kind    ErrorKind
	Err     error
}

// DispatchResult is the outcome of one multicast send, one entry per input
// endpoint in input order.
type DispatchResult struct {
	SuccessCount int
	FailureCount int
	PerEndpoint  []EndpointResult
}
