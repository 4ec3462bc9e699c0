package admin

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// FirestoreProfiles implements ProfileStore on the users collection.
type FirestoreProfiles struct {
	client *firestore.Client
}

func NewFirestoreProfiles(client *firestore.Client) *FirestoreProfiles {
	return &FirestoreProfiles{client: client}
}

func (p *FirestoreProfiles) SetRole(ctx context.Context, userID, role string) error {
	_, err := p.client.Collection("users").Doc(userID).Set(ctx, map[string]interface{}{
		"role": role,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to set role on user %s: %w", userID, err)
	}

	return nil
}
