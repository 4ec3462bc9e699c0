package triggers

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/phongtro-app/notify-service/internal/logger"
	"github.com/phongtro-app/notify-service/internal/notify"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: slog.LevelError})
}

type sentNotification struct {
	UserID string
	N      notify.Notification
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sentNotification
	errFor map[string]error
}

func (f *fakeNotifier) Notify(ctx context.Context, userID string, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.errFor[userID]; err != nil {
		return err
	}

	f.sent = append(f.sent, sentNotification{UserID: userID, N: n})
	return nil
}

func (f *fakeNotifier) sentTo() []sentNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentNotification(nil), f.sent...)
}

type fakeStore struct {
	mu           sync.Mutex
	favorites    []FavoriteLink
	favErr       error
	savedPrices  map[string]float64
	savedErr     error
	conversation *Conversation
	convErr      error
	displayNames map[string]string
	nameErr      error
	incremented  int
	lastPreview  string
	incErr       error
}

func (s *fakeStore) FavoritesByRoom(ctx context.Context, roomID string) ([]FavoriteLink, error) {
	return s.favorites, s.favErr
}

func (s *fakeStore) UpdateSavedPrice(ctx context.Context, favoriteID string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.savedErr != nil {
		return s.savedErr
	}

	if s.savedPrices == nil {
		s.savedPrices = make(map[string]float64)
	}
	s.savedPrices[favoriteID] = price
	return nil
}

func (s *fakeStore) Conversation(ctx context.Context, conversationID string) (*Conversation, error) {
	if s.convErr != nil {
		return nil, s.convErr
	}
	return s.conversation, nil
}

func (s *fakeStore) RecordIncomingMessage(ctx context.Context, conversationID, preview string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.incErr != nil {
		return s.incErr
	}

	s.incremented++
	s.lastPreview = preview
	return nil
}

func (s *fakeStore) UserDisplayName(ctx context.Context, userID string) (string, error) {
	if s.nameErr != nil {
		return "", s.nameErr
	}
	return s.displayNames[userID], nil
}

func (s *fakeStore) savedPriceOf(favoriteID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	price, ok := s.savedPrices[favoriteID]
	return price, ok
}

var errStoreDown = errors.New("firestore down")
