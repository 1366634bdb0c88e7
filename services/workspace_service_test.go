package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"team-chat/domain"
	"team-chat/errors"
	"team-chat/mocks"
	"team-chat/runtime"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestWorkspaceService_ConcurrentAddMemberKeepsEveryGrant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	c := f.channel(t, f.workspace(t, owner).ID, owner, "leads", true)

	members := make([]string, 20)
	for i := range members {
		members[i] = f.user(t, fmt.Sprintf("m%d", i))
	}

	// When the owner grants twenty users at the same time
	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for _, member := range members {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			if _, err := f.workspaceService.AddMember(ctx, owner, c.ID, userID); err == nil {
				succeeded.Add(1)
			}
		}(member)
	}
	wg.Wait()

	// Then every call succeeded and every grant is stored
	req.Equal(int32(len(members)), succeeded.Load())
	stored, err := f.channels.FindByID(c.ID)
	req.NoError(err)
	req.ElementsMatch(members, stored.AllowedUsers)
	for _, member := range members {
		req.True(stored.CanAccess(member))
	}
}

func TestWorkspaceService_MembershipChangesRunInsideTheStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	users := mocks.NewMockIUserRepository(ctrl)
	channels := mocks.NewMockIChannelRepository(ctrl)
	hub := runtime.NewHub()
	svc := NewWorkspaceService(log, runtime.NewDispatcher(log, hub.Channels, time.Second), users, nil, channels)

	stored := domain.Channel{ID: "C", WorkspaceID: "W", Name: "leads", IsPrivate: true, CreatedBy: "U1", AllowedUsers: []string{"U2"}}
	applyTo := func(channel domain.Channel) func(string, func(*domain.Channel) error) (domain.Channel, error) {
		return func(_ string, fn func(*domain.Channel) error) (domain.Channel, error) {
			channel.AllowedUsers = append([]string(nil), channel.AllowedUsers...)
			if err := fn(&channel); err != nil {
				return domain.Channel{}, err
			}
			return channel, nil
		}
	}

	t.Run("should grant through the store update", func(t *testing.T) {
		req := require.New(t)
		users.EXPECT().FindByID("U3").Return(domain.User{ID: "U3"}, nil)
		channels.EXPECT().UpdateAllowedUsers("C", gomock.Any()).DoAndReturn(applyTo(stored))

		channel, err := svc.AddMember(context.Background(), "U1", "C", "U3")
		req.NoError(err)
		req.Equal([]string{"U2", "U3"}, channel.AllowedUsers)
	})

	t.Run("should reject a non owner inside the update", func(t *testing.T) {
		req := require.New(t)
		users.EXPECT().FindByID("U3").Return(domain.User{ID: "U3"}, nil)
		channels.EXPECT().UpdateAllowedUsers("C", gomock.Any()).DoAndReturn(applyTo(stored))

		_, err := svc.AddMember(context.Background(), "U2", "C", "U3")
		req.ErrorIs(err, errors.ErrNotChannelOwner)
	})

	t.Run("should never touch the channel for an unknown user", func(t *testing.T) {
		req := require.New(t)
		users.EXPECT().FindByID("ghost").Return(domain.User{}, errors.ErrUserNotFound)

		_, err := svc.AddMember(context.Background(), "U1", "C", "ghost")
		req.ErrorIs(err, errors.ErrUserNotFound)
	})

	t.Run("should surface a store failure on removal", func(t *testing.T) {
		req := require.New(t)
		channels.EXPECT().UpdateAllowedUsers("C", gomock.Any()).Return(domain.Channel{}, badger.ErrConflict)

		_, err := svc.RemoveMember(context.Background(), "U1", "C", "U2")
		req.ErrorIs(err, badger.ErrConflict)
	})
}
