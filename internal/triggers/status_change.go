package triggers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phongtro-app/notify-service/internal/logger"
	"github.com/phongtro-app/notify-service/internal/notify"
)

const (
	statusActive   = "active"
	statusRejected = "rejected"

	// defaultRejectionReason is used when moderation leaves no reason.
	defaultRejectionReason = "Không đáp ứng yêu cầu"
)

// StatusChangeComposer notifies a room's owner when moderation approves or
// rejects their listing.
type StatusChangeComposer struct {
	notifier Notifier
	logger   *logger.Logger
}

func NewStatusChangeComposer(notifier Notifier, logger *logger.Logger) *StatusChangeComposer {
	return &StatusChangeComposer{
		notifier: notifier,
		logger:   logger,
	}
}

// Handle fires only when the status actually changed. Transitions that are
// neither into active nor into rejected produce no notification.
func (c *StatusChangeComposer) Handle(ctx context.Context, roomID string, before, after *Room) error {
	log := c.logger.WithContext(ctx).WithComponent("status-change")

	if before == nil || after == nil {
		return fmt.Errorf("room %s: missing before/after snapshot", roomID)
	}

	if before.Status == after.Status {
		return nil
	}

	if after.OwnerID == "" {
		return fmt.Errorf("room %s: missing ownerId", roomID)
	}

	roomTitle := after.Title
	if roomTitle == "" {
		roomTitle = "của bạn"
	}

	var n notify.Notification

	switch {
	case after.Status == statusActive && before.Status != statusActive:
		n = notify.Notification{
			Type:  notify.TypeRoomApproved,
			Title: "Tin đăng được duyệt",
			Body:  fmt.Sprintf("Phòng trọ %q đã được duyệt và hiển thị trên ứng dụng.", roomTitle),
			Data: map[string]string{
				"type":      string(notify.TypeRoomApproved),
				"roomId":    roomID,
				"roomTitle": after.Title,
			},
		}

	case after.Status == statusRejected && before.Status != statusRejected:
		reason := after.RejectionReason
		if reason == "" {
			reason = defaultRejectionReason
		}

		n = notify.Notification{
			Type:  notify.TypeRoomRejected,
			Title: "Tin đăng bị từ chối",
			Body:  fmt.Sprintf("Phòng trọ %q đã bị từ chối. Lý do: %s", roomTitle, reason),
			Data: map[string]string{
				"type":      string(notify.TypeRoomRejected),
				"roomId":    roomID,
				"roomTitle": after.Title,
				"reason":    reason,
			},
		}

	default:
		return nil
	}

	if err := c.notifier.Notify(ctx, after.OwnerID, n); err != nil {
		return fmt.Errorf("room %s: failed to notify owner: %w", roomID, err)
	}

	log.Info("status change notification sent",
		slog.String("room_id", roomID),
		slog.String("owner_id", after.OwnerID),
		slog.String("type", string(n.Type)))

	return nil
}
