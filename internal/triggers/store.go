package triggers

import (
	"context"

	"github.com/phongtro-app/notify-service/internal/notify"
)

// Notifier delivers one composed notification to one recipient: durable
// record plus best-effort push. Satisfied by *notify.Service.
type Notifier interface {
	Notify(ctx context.Context, userID string, n notify.Notification) error
}

// DomainStore is the slice of the document store the composers read and
// mutate beyond the notification collections themselves.
type DomainStore interface {
	// FavoritesByRoom resolves every favorite link pointing at the room.
	FavoritesByRoom(ctx context.Context, roomID string) ([]FavoriteLink, error)
	// UpdateSavedPrice rewrites the baseline price on one favorite link.
	UpdateSavedPrice(ctx context.Context, favoriteID string, price float64) error
	// Conversation loads a conversation document.
	Conversation(ctx context.Context, conversationID string) (*Conversation, error)
	// RecordIncomingMessage increments unreadCount by one and refreshes the
	// lastMessage fields, atomically on the conversation document.
	RecordIncomingMessage(ctx context.Context, conversationID, preview string) error
	// UserDisplayName resolves a user's display name, best effort.
	UserDisplayName(ctx context.Context, userID string) (string, error)
}
