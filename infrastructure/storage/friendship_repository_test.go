package storage

import (
	"team-chat/domain"
	"team-chat/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFriendshipRepository_BothOrderings(t *testing.T) {
	req := require.New(t)
	repository := NewFriendshipRepository(openTestDB(t))
	now := time.Now().UTC()

	// Given A asked B
	req.NoError(repository.Create(domain.Friendship{UserID: "A", FriendID: "B", Status: domain.FriendshipPending, CreatedAt: now}))

	// Then the edge is found from both sides
	ab, err := repository.Find("A", "B")
	req.NoError(err)
	ba, err := repository.Find("B", "A")
	req.NoError(err)
	req.Equal(ab, ba)

	// And B cannot create the reverse edge
	err = repository.Create(domain.Friendship{UserID: "B", FriendID: "A", Status: domain.FriendshipPending, CreatedAt: now})
	req.ErrorIs(err, errors.ErrFriendshipExists)

	// When B accepts
	accepted, err := repository.UpdateStatus("B", "A", domain.FriendshipAccepted)
	req.NoError(err)
	req.Equal(domain.FriendshipAccepted, accepted.Status)
	req.Equal("A", accepted.UserID)

	// Then both list each other
	friendsOfA, err := repository.ListByStatus("A", domain.FriendshipAccepted)
	req.NoError(err)
	req.Len(friendsOfA, 1)
	friendsOfB, err := repository.ListByStatus("B", domain.FriendshipAccepted)
	req.NoError(err)
	req.Len(friendsOfB, 1)
	req.Equal("A", friendsOfB[0].Other("B"))

	_, err = repository.Find("A", "C")
	req.ErrorIs(err, errors.ErrFriendshipNotFound)
}
