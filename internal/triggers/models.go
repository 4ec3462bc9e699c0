package triggers

import (
	"encoding/json"
	"fmt"
)

// ChangeKind is the kind of document change a trigger delivers.
type ChangeKind string

const (
	ChangeCreate ChangeKind = "create"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// ChangeEvent is one Firestore document change delivered by the trigger
// transport. It exists only for the duration of one invocation.
type ChangeEvent struct {
	Document string          `json:"document"`
	Kind     ChangeKind      `json:"type"`
	Before   json.RawMessage `json:"before,omitempty"`
	After    json.RawMessage `json:"after,omitempty"`
}

// Room is the trigger-boundary snapshot of a room document.
type Room struct {
	Title           string  `json:"title" firestore:"title"`
	Status          string  `json:"status" firestore:"status"`
	OwnerID         string  `json:"ownerId" firestore:"ownerId"`
	RejectionReason string  `json:"rejectionReason" firestore:"rejectionReason"`
	PriceMillion    float64 `json:"priceMillion" firestore:"priceMillion"`
}

// Message is the trigger-boundary snapshot of a message document.
type Message struct {
	SenderID string `json:"senderId" firestore:"senderId"`
	Content  string `json:"content" firestore:"content"`
}

// Conversation holds the participant pair and last-message bookkeeping for a
// room-rental chat. unreadCount only ever grows here; an external mark-read
// flow resets it.
type Conversation struct {
	ParticipantIDs []string `firestore:"participantIds"`
	RoomID         string   `firestore:"roomId"`
	RoomTitle      string   `firestore:"roomTitle"`
	UnreadCount    int64    `firestore:"unreadCount"`
}

// FavoriteLink marks that a user saved a room, with the price at save time as
// the baseline for the next price-change comparison.
type FavoriteLink struct {
	ID         string  `firestore:"-"`
	UserID     string  `firestore:"userId"`
	RoomID     string  `firestore:"roomId"`
	SavedPrice float64 `firestore:"savedPrice"`
}

// decodeRoom parses a snapshot side of a room change. A missing or null
// snapshot decodes to nil, not an error.
func decodeRoom(raw json.RawMessage) (*Room, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var room Room
	if err := json.Unmarshal(raw, &room); err != nil {
		return nil, fmt.Errorf("failed to decode room snapshot: %w", err)
	}

	return &room, nil
}

// decodeMessage parses the created message document.
func decodeMessage(raw json.RawMessage) (*Message, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message snapshot: %w", err)
	}

	return &msg, nil
}
