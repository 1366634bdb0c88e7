package domain

import (
	"strings"
	"time"
)

// DirectMessage is soft deleted: IsDeleted hides it from conversations but the row stays.
type DirectMessage struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"senderId"`
	ReceiverID string     `json:"receiverId"`
	Content    string     `json:"content"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	IsDeleted  bool       `json:"isDeleted"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Counterpart returns the other side of the conversation from userID's point of view.
func (m DirectMessage) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// PairKey identifies the unordered pair (a, b): PairKey(a, b) == PairKey(b, a).
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "|" + b
}
