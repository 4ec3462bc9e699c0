package triggers

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/phongtro-app/notify-service/internal/logger"
)

// FirestoreStore implements DomainStore on the shared Firestore client.
type FirestoreStore struct {
	client *firestore.Client
	logger *logger.Logger
}

func NewFirestoreStore(client *firestore.Client, logger *logger.Logger) *FirestoreStore {
	return &FirestoreStore{
		client: client,
		logger: logger,
	}
}

func (s *FirestoreStore) FavoritesByRoom(ctx context.Context, roomID string) ([]FavoriteLink, error) {
	log := s.logger.WithContext(ctx).WithComponent("domain-store")

	docs, err := s.client.Collection("favorites").
		Where("roomId", "==", roomID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites for room %s: %w", roomID, err)
	}

	favorites := make([]FavoriteLink, 0, len(docs))
	for _, doc := range docs {
		var fav FavoriteLink
		if err := doc.DataTo(&fav); err != nil {
			log.Warn("skipping malformed favorite document",
				slog.String("doc_id", doc.Ref.ID),
				slog.String("error", err.Error()))
			continue
		}

		fav.ID = doc.Ref.ID
		favorites = append(favorites, fav)
	}

	return favorites, nil
}

func (s *FirestoreStore) UpdateSavedPrice(ctx context.Context, favoriteID string, price float64) error {
	_, err := s.client.Collection("favorites").Doc(favoriteID).Update(ctx, []firestore.Update{
		{Path: "savedPrice", Value: price},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to update savedPrice on favorite %s: %w", favoriteID, err)
	}

	return nil
}

func (s *FirestoreStore) Conversation(ctx context.Context, conversationID string) (*Conversation, error) {
	doc, err := s.client.Collection("conversations").Doc(conversationID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("conversation %s not found: %w", conversationID, err)
		}
		return nil, fmt.Errorf("failed to get conversation %s: %w", conversationID, err)
	}

	var conv Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation %s: %w", conversationID, err)
	}

	return &conv, nil
}

func (s *FirestoreStore) RecordIncomingMessage(ctx context.Context, conversationID, preview string) error {
	_, err := s.client.Collection("conversations").Doc(conversationID).Update(ctx, []firestore.Update{
		{Path: "unreadCount", Value: firestore.Increment(1)},
		{Path: "lastMessage", Value: preview},
		{Path: "lastMessageAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to record incoming message on conversation %s: %w", conversationID, err)
	}

	return nil
}

func (s *FirestoreStore) UserDisplayName(ctx context.Context, userID string) (string, error) {
	doc, err := s.client.Collection("users").Doc(userID).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	data := doc.Data()
	if name, ok := data["displayName"].(string); ok && name != "" {
		return name, nil
	}
	if name, ok := data["name"].(string); ok && name != "" {
		return name, nil
	}

	return "", nil
}
