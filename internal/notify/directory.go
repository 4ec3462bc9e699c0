package notify

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"

	"github.com/phongtro-app/notify-service/internal/logger"
)

// Directory is the per-user registry of delivery endpoints.
type Directory interface {
	// ListEndpoints returns all registered endpoints for the user. An empty
	// slice, not an error, when the user has none.
	ListEndpoints(ctx context.Context, userID string) ([]Endpoint, error)
	// RemoveEndpoint deletes every stored endpoint whose token equals the
	// given value. Removing a non-existent token is a no-op.
	RemoveEndpoint(ctx context.Context, userID, token string) error
}

// FirestoreDirectory reads and mutates device tokens stored at
// users/{userId}/fcmTokens/*, one document per registration with a `token`
// field. Registration itself is done by the client apps.
type FirestoreDirectory struct {
	client *firestore.Client
	logger *logger.Logger
}

func NewFirestoreDirectory(client *firestore.Client, logger *logger.Logger) *FirestoreDirectory {
	return &FirestoreDirectory{
		client: client,
		logger: logger,
	}
}

func (d *FirestoreDirectory) tokens(userID string) *firestore.CollectionRef {
	return d.client.Collection("users").Doc(userID).Collection("fcmTokens")
}

func (d *FirestoreDirectory) ListEndpoints(ctx context.Context, userID string) ([]Endpoint, error) {
	log := d.logger.WithContext(ctx).WithComponent("endpoint-directory")

	docs, err := d.tokens(userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fcm tokens for user %s: %w", userID, err)
	}

	endpoints := make([]Endpoint, 0, len(docs))
	for _, doc := range docs {
		token, ok := doc.Data()["token"].(string)
		if !ok || token == "" {
			log.Warn("skipping token document with missing token field",
				slog.String("user_id", userID),
				slog.String("doc_id", doc.Ref.ID))
			continue
		}

		endpoints = append(endpoints, Endpoint{
			Token:   token,
			OwnerID: userID,
		})
	}

	return endpoints, nil
}

func (d *FirestoreDirectory) RemoveEndpoint(ctx context.Context, userID, token string) error {
	docs, err := d.tokens(userID).Where("token", "==", token).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to query token for user %s: %w", userID, err)
	}

	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete token document %s: %w", doc.Ref.ID, err)
		}
	}

	return nil
}
