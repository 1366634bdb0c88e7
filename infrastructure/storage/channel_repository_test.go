package storage

import (
	"fmt"
	"sync"
	"team-chat/domain"
	"team-chat/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelRepository_UniqueNamePerWorkspace(t *testing.T) {
	req := require.New(t)
	repository := NewChannelRepository(openTestDB(t))

	req.NoError(repository.Save(domain.Channel{ID: "c1", WorkspaceID: "w1", Name: "general", CreatedBy: "U1"}))

	// Same name in the same workspace is rejected, whatever the case
	err := repository.Save(domain.Channel{ID: "c2", WorkspaceID: "w1", Name: "General", CreatedBy: "U2"})
	req.ErrorIs(err, errors.ErrChannelNameTaken)

	// Same name in another workspace is fine
	req.NoError(repository.Save(domain.Channel{ID: "c3", WorkspaceID: "w2", Name: "general", CreatedBy: "U2"}))

	channels, err := repository.FindByWorkspace("w1")
	req.NoError(err)
	req.Len(channels, 1)
}

func TestChannelRepository_UpdateAndRename(t *testing.T) {
	req := require.New(t)
	repository := NewChannelRepository(openTestDB(t))
	channel := domain.Channel{ID: "c1", WorkspaceID: "w1", Name: "secret", IsPrivate: true, CreatedBy: "U1"}
	req.NoError(repository.Save(channel))

	// When the allow-list is updated and the channel renamed
	channel.AllowedUsers = []string{"U2"}
	channel.Name = "hidden"
	req.NoError(repository.Save(channel))

	found, err := repository.FindByID("c1")
	req.NoError(err)
	req.Equal([]string{"U2"}, found.AllowedUsers)
	req.Equal("hidden", found.Name)

	// Then the old name is free again
	req.NoError(repository.Save(domain.Channel{ID: "c2", WorkspaceID: "w1", Name: "secret", CreatedBy: "U3"}))

	_, err = repository.FindByID("missing")
	req.ErrorIs(err, errors.ErrChannelNotFound)
}

func TestChannelRepository_UpdateAllowedUsersKeepsOverlappingGrants(t *testing.T) {
	req := require.New(t)
	repository := NewChannelRepository(openTestDB(t))
	req.NoError(repository.Save(domain.Channel{ID: "c1", WorkspaceID: "w1", Name: "board", IsPrivate: true, CreatedBy: "U0"}))

	// When four members are granted at the same time
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := repository.UpdateAllowedUsers("c1", func(channel *domain.Channel) error {
				return channel.AddAllowedUser("U0", userID)
			})
			errs <- err
		}(fmt.Sprintf("U%d", i))
	}
	wg.Wait()
	close(errs)

	// Then no grant is lost
	for err := range errs {
		req.NoError(err)
	}
	found, err := repository.FindByID("c1")
	req.NoError(err)
	req.ElementsMatch([]string{"U1", "U2", "U3", "U4"}, found.AllowedUsers)
}

func TestChannelRepository_UpdateAllowedUsersAbortsOnRejection(t *testing.T) {
	req := require.New(t)
	repository := NewChannelRepository(openTestDB(t))
	req.NoError(repository.Save(domain.Channel{ID: "c1", WorkspaceID: "w1", Name: "board", IsPrivate: true, CreatedBy: "U0", AllowedUsers: []string{"U1"}}))

	// A non-owner change is rejected and nothing is written
	_, err := repository.UpdateAllowedUsers("c1", func(channel *domain.Channel) error {
		channel.AllowedUsers = nil
		return channel.AddAllowedUser("U1", "U2")
	})
	req.ErrorIs(err, errors.ErrNotChannelOwner)
	found, err := repository.FindByID("c1")
	req.NoError(err)
	req.Equal([]string{"U1"}, found.AllowedUsers)

	_, err = repository.UpdateAllowedUsers("missing", func(*domain.Channel) error { return nil })
	req.ErrorIs(err, errors.ErrChannelNotFound)
}
