package storage

import (
	"team-chat/domain"
	"team-chat/errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newDirectMessage(from, to, content string, at time.Time) domain.DirectMessage {
	return domain.DirectMessage{ID: uuid.NewString(), SenderID: from, ReceiverID: to, Content: content, CreatedAt: at}
}

func TestDirectMessageRepository_ConversationExcludesDeleted(t *testing.T) {
	req := require.New(t)
	repository := NewDirectMessageRepository(openTestDB(t))
	at := time.Now().UTC()
	first := newDirectMessage("A", "B", "hi", at)
	second := newDirectMessage("B", "A", "hello", at.Add(time.Second))
	third := newDirectMessage("A", "B", "oops", at.Add(2*time.Second))
	for _, m := range []domain.DirectMessage{first, second, third, newDirectMessage("A", "C", "other", at)} {
		req.NoError(repository.StoreDirectMessage(m))
	}

	// When the last message is soft deleted
	deleted, err := repository.SoftDelete(third.ID)
	req.NoError(err)
	req.True(deleted.IsDeleted)

	// Then the conversation hides it, from both points of view, oldest first
	for _, pair := range [][2]string{{"A", "B"}, {"B", "A"}} {
		conversation, err := repository.Conversation(pair[0], pair[1])
		req.NoError(err)
		req.Len(conversation, 2)
		req.Equal("hi", conversation[0].Content)
		req.Equal("hello", conversation[1].Content)
	}

	// But the row is retained
	kept, err := repository.FindByID(third.ID)
	req.NoError(err)
	req.True(kept.IsDeleted)

	_, err = repository.SoftDelete(third.ID)
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func TestDirectMessageRepository_MarkAsRead(t *testing.T) {
	req := require.New(t)
	repository := NewDirectMessageRepository(openTestDB(t))
	at := time.Now().UTC()
	for i := 0; i < 3; i++ {
		req.NoError(repository.StoreDirectMessage(newDirectMessage("A", "B", "ping", at.Add(time.Duration(i)*time.Second))))
	}
	req.NoError(repository.StoreDirectMessage(newDirectMessage("B", "A", "pong", at.Add(5*time.Second))))

	// When B reads what A sent
	readAt := at.Add(time.Minute)
	count, err := repository.MarkAsRead("A", "B", readAt)
	req.NoError(err)
	req.Equal(3, count)

	// Then only A's messages carry the read date
	conversation, err := repository.Conversation("A", "B")
	req.NoError(err)
	for _, m := range conversation {
		if m.SenderID == "A" {
			req.NotNil(m.ReadAt)
			req.True(readAt.Equal(*m.ReadAt))
		} else {
			req.Nil(m.ReadAt)
		}
	}

	// And marking again changes nothing
	count, err = repository.MarkAsRead("A", "B", readAt)
	req.NoError(err)
	req.Zero(count)
}
