package triggers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phongtro-app/notify-service/internal/logger"
	"github.com/phongtro-app/notify-service/internal/notify"
)

const (
	// messagePreviewMaxRunes caps the preview shown in records and pushes.
	messagePreviewMaxRunes = 100

	// fallbackSenderName is shown when the sender has no usable profile name.
	fallbackSenderName = "Người dùng"

	// fallbackRoomTitle is shown when the conversation has no room title.
	fallbackRoomTitle = "Phòng trọ"
)

// NewMessageComposer notifies the other conversation participant when a
// message is created.
type NewMessageComposer struct {
	notifier Notifier
	store    DomainStore
	logger   *logger.Logger
}

func NewNewMessageComposer(notifier Notifier, store DomainStore, logger *logger.Logger) *NewMessageComposer {
	return &NewMessageComposer{
		notifier: notifier,
		store:    store,
		logger:   logger,
	}
}

// Handle resolves the recipient as the participant who is not the sender.
// Conversations are assumed to have exactly two participants; anything else
// resolves to the first non-sender or to no recipient at all.
func (c *NewMessageComposer) Handle(ctx context.Context, conversationID, messageID string, msg *Message) error {
	ctx = logger.WithConversationID(ctx, conversationID)
	log := c.logger.WithContext(ctx).WithComponent("new-message")

	if msg == nil || msg.SenderID == "" || msg.Content == "" {
		log.Debug("message missing sender or content, skipping",
			slog.String("message_id", messageID))
		return nil
	}

	conv, err := c.store.Conversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("message %s: %w", messageID, err)
	}

	var recipientID string
	for _, id := range conv.ParticipantIDs {
		if id != msg.SenderID {
			recipientID = id
			break
		}
	}

	if recipientID == "" {
		log.Info("no recipient found for conversation, skipping")
		return nil
	}

	senderName, err := c.store.UserDisplayName(ctx, msg.SenderID)
	if err != nil || senderName == "" {
		senderName = fallbackSenderName
	}

	roomTitle := conv.RoomTitle
	if roomTitle == "" {
		roomTitle = fallbackRoomTitle
	}

	preview := truncatePreview(msg.Content, messagePreviewMaxRunes)

	notifyErr := c.notifier.Notify(ctx, recipientID, notify.Notification{
		Type:  notify.TypeNewMessage,
		Title: senderName,
		Body:  preview,
		Data: map[string]string{
			"type":           string(notify.TypeNewMessage),
			"conversationId": conversationID,
			"senderId":       msg.SenderID,
			"senderName":     senderName,
			"roomId":         conv.RoomID,
			"roomTitle":      roomTitle,
			"messagePreview": preview,
		},
	})
	if notifyErr != nil {
		// The unread bookkeeping below still has to happen.
		log.Warn("new message notify failed",
			slog.String("recipient_id", recipientID),
			slog.String("error", notifyErr.Error()))
	}

	if err := c.store.RecordIncomingMessage(ctx, conversationID, preview); err != nil {
		return fmt.Errorf("message %s: %w", messageID, err)
	}

	log.Info("new message notification processed",
		slog.String("recipient_id", recipientID))

	return nil
}

// truncatePreview cuts the content to max runes with a trailing ellipsis
// marker when longer. Rune-based so multi-byte Vietnamese text never gets
// split mid-character.
func truncatePreview(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}
