package notify

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// RecordStore is the append-only log of notification documents. Records are
// written whether or not the subsequent push succeeds.
type RecordStore interface {
	Create(ctx context.Context, rec Record) error
}

// FirestoreRecords appends to the top-level notifications collection with an
// auto-generated document ID.
type FirestoreRecords struct {
	client *firestore.Client
}

func NewFirestoreRecords(client *firestore.Client) *FirestoreRecords {
	return &FirestoreRecords{client: client}
}

func (r *FirestoreRecords) Create(ctx context.Context, rec Record) error {
	if rec.Data == nil {
		rec.Data = map[string]string{}
	}

	_, _, err := r.client.Collection("notifications").Add(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to create notification document for user %s: %w", rec.UserID, err)
	}

	return nil
}
