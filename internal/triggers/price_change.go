package triggers

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/phongtro-app/notify-service/internal/logger"
	"github.com/phongtro-app/notify-service/internal/notify"
)

// PriceChangeComposer notifies every user who favorited a room when its price
// changes while the listing is active, then rewrites each favorite's saved
// baseline price.
type PriceChangeComposer struct {
	notifier Notifier
	store    DomainStore
	logger   *logger.Logger
}

func NewPriceChangeComposer(notifier Notifier, store DomainStore, logger *logger.Logger) *PriceChangeComposer {
	return &PriceChangeComposer{
		notifier: notifier,
		store:    store,
		logger:   logger,
	}
}

// Handle fans out to all favoriting users concurrently. There is no ordering
// or atomicity across recipients; one recipient failing never aborts the
// rest, and the savedPrice update is issued whether or not that user's push
// succeeded.
func (c *PriceChangeComposer) Handle(ctx context.Context, roomID string, before, after *Room) error {
	log := c.logger.WithContext(ctx).WithComponent("price-change")

	if before == nil || after == nil {
		return fmt.Errorf("room %s: missing before/after snapshot", roomID)
	}

	if before.PriceMillion == after.PriceMillion || after.Status != statusActive {
		return nil
	}

	favorites, err := c.store.FavoritesByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("room %s: failed to resolve favorites: %w", roomID, err)
	}

	if len(favorites) == 0 {
		log.Debug("no favorites for room, skipping",
			slog.String("room_id", roomID))
		return nil
	}

	n := c.compose(roomID, before, after)

	var wg sync.WaitGroup
	for _, fav := range favorites {
		if fav.UserID == "" {
			continue
		}

		wg.Add(1)
		go func(fav FavoriteLink) {
			defer wg.Done()

			if err := c.notifier.Notify(ctx, fav.UserID, n); err != nil {
				log.Warn("price change notify failed",
					slog.String("room_id", roomID),
					slog.String("user_id", fav.UserID),
					slog.String("error", err.Error()))
			}

			// Baseline update is independent of the push outcome.
			if err := c.store.UpdateSavedPrice(ctx, fav.ID, after.PriceMillion); err != nil {
				log.Warn("failed to update savedPrice",
					slog.String("room_id", roomID),
					slog.String("favorite_id", fav.ID),
					slog.String("error", err.Error()))
			}
		}(fav)
	}
	wg.Wait()

	log.Info("price change fan-out completed",
		slog.String("room_id", roomID),
		slog.Int("favorite_count", len(favorites)))

	return nil
}

// compose picks the message wording from the direction of the change. A zero
// baseline price makes the percentage non-representable; those changes fall
// through to the neutral template with the percentage omitted.
func (c *PriceChangeComposer) compose(roomID string, before, after *Room) notify.Notification {
	var (
		title, body   string
		changePercent string
	)

	if before.PriceMillion != 0 {
		pct := math.Abs((after.PriceMillion - before.PriceMillion) / before.PriceMillion * 100)
		changePercent = strconv.FormatFloat(pct, 'f', 1, 64)
	}

	decrease := after.PriceMillion < before.PriceMillion && before.PriceMillion != 0

	if decrease {
		title = "Giá phòng yêu thích giảm! 🎉"
		body = fmt.Sprintf("Phòng %q giảm từ %.1f triệu xuống %.1f triệu/tháng (%s%%)",
			after.Title, before.PriceMillion, after.PriceMillion, changePercent)
	} else {
		title = "Giá phòng yêu thích thay đổi"
		body = fmt.Sprintf("Phòng %q có giá mới: %.1f triệu/tháng",
			after.Title, after.PriceMillion)
	}

	data := map[string]string{
		"type":      string(notify.TypeRoomPriceChanged),
		"roomId":    roomID,
		"roomTitle": after.Title,
		"oldPrice":  strconv.FormatFloat(before.PriceMillion, 'f', -1, 64),
		"newPrice":  strconv.FormatFloat(after.PriceMillion, 'f', -1, 64),
	}
	if changePercent != "" {
		data["changePercent"] = changePercent
	}

	return notify.Notification{
		Type:  notify.TypeRoomPriceChanged,
		Title: title,
		Body:  body,
		Data:  data,
	}
}
