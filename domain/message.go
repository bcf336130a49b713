package domain

import (
	"sort"
	"time"
)

// Message is a direct message between two users.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation tracks the thread between two participants plus its most
// recent message.
type Conversation struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	LastMessage  string    `json:"last_message,omitempty"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConversationKey returns the participant pair in canonical order so the
// same two users always map to the same conversation.
func ConversationKey(userA, userB string) []string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return pair
}

// SenderDigest summarizes one sender in the inbox overview, carrying the
// latest message received from them.
type SenderDigest struct {
	UserID      string   `json:"user_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	LastMessage *Message `json:"last_message,omitempty"`
}
