package storage

import (
	"log/slog"
	"team-chat/domain"
	"team-chat/errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newMessage(channelID, sender, content string, at time.Time) domain.Message {
	return domain.Message{ID: uuid.NewString(), ChannelID: channelID, SenderID: sender, Content: content, CreatedAt: at}
}

func Test_Record_And_Get_Sorted_Messages(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()
	messages := []domain.Message{
		newMessage("C1", "Alice", "first", at),
		newMessage("C1", "Bob", "second", at.Add(time.Minute)),
		newMessage("C1", "Clara", "third", at.Add(2*time.Minute)),
		newMessage("C2", "Dan", "elsewhere", at),
	}
	for _, m := range messages {
		req.NoError(repository.StoreMessage(m))
	}

	// When fetching the channel history
	fetched, _, err := repository.GetMessages("C1", nil)
	req.NoError(err)

	// Then only the channel messages are returned, newest first
	req.Len(fetched, 3)
	req.Equal("third", fetched[0].Content)
	req.Equal("second", fetched[1].Content)
	req.Equal("first", fetched[2].Content)
}

func Test_Get_Messages_With_Cursor(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(openTestDB(t), slog.Default(), &limit)
	at := time.Now().UTC()
	for i, content := range []string{"m1", "m2", "m3", "m4", "m5"} {
		req.NoError(repository.StoreMessage(newMessage("C1", "Alice", content, at.Add(time.Duration(i)*time.Second))))
	}

	page1, cursor, err := repository.GetMessages("C1", nil)
	req.NoError(err)
	req.Equal([]string{"m5", "m4"}, contents(page1))
	req.NotNil(cursor)

	page2, cursor, err := repository.GetMessages("C1", cursor)
	req.NoError(err)
	req.Equal([]string{"m3", "m2"}, contents(page2))

	page3, _, err := repository.GetMessages("C1", cursor)
	req.NoError(err)
	req.Equal([]string{"m1"}, contents(page3))
}

func Test_Update_Reactions_And_Hard_Delete(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	message := newMessage("C1", "Alice", "react to me", time.Now().UTC())
	req.NoError(repository.StoreMessage(message))

	updated, err := repository.UpdateReactions(message.ID, []domain.Reaction{{Emoji: "👍", Users: []string{"Bob"}}})
	req.NoError(err)
	req.Len(updated.Reactions, 1)

	found, err := repository.FindByID(message.ID)
	req.NoError(err)
	req.Equal(updated.Reactions, found.Reactions)

	// When the message is deleted it simply vanishes
	req.NoError(repository.DeleteMessage(message.ID))
	_, err = repository.FindByID(message.ID)
	req.ErrorIs(err, errors.ErrMessageNotFound)
	history, cursor, err := repository.GetMessages("C1", nil)
	req.NoError(err)
	req.Empty(history)
	req.Nil(cursor)

	req.ErrorIs(repository.DeleteMessage(message.ID), errors.ErrMessageNotFound)
}

func contents(messages []domain.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Content)
	}
	return out
}
