package domain

import (
	"team-chat/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func privateChannel(owner string, allowed ...string) Channel {
	return Channel{ID: "c1", WorkspaceID: "w1", Name: "secret", IsPrivate: true, CreatedBy: owner, AllowedUsers: allowed}
}

func TestChannel_CanAccess(t *testing.T) {
	req := require.New(t)
	public := Channel{ID: "c0", CreatedBy: "owner"}
	private := privateChannel("B", "A")

	// Public channels are open to anyone
	req.True(public.CanAccess("anyone"))

	// Private channels: owner, allowed users and nobody else
	req.True(private.CanAccess("B"))
	req.True(private.CanAccess("A"))
	req.False(private.CanAccess("C"))
	req.False(private.CanAccess(""))
}

func TestChannel_EffectiveMembers_OwnerIsImplicit(t *testing.T) {
	req := require.New(t)

	// Given the owner is not listed in the allow-list
	ch := privateChannel("B", "A")
	req.Equal([]string{"B", "A"}, ch.EffectiveMembers())

	// Given the owner is also listed, it is not duplicated
	ch = privateChannel("B", "A", "B")
	req.Equal([]string{"B", "A"}, ch.EffectiveMembers())
}

func TestChannel_AddAllowedUser(t *testing.T) {
	req := require.New(t)
	ch := privateChannel("owner")

	// Only the owner may add members
	req.ErrorIs(ch.AddAllowedUser("A", "C"), errors.ErrNotChannelOwner)

	req.NoError(ch.AddAllowedUser("owner", "A"))
	req.True(ch.CanAccess("A"))

	// Adding someone already present is rejected
	req.ErrorIs(ch.AddAllowedUser("owner", "A"), errors.ErrAlreadyMember)
	req.ErrorIs(ch.AddAllowedUser("owner", "owner"), errors.ErrAlreadyMember)
	req.Equal([]string{"A"}, ch.AllowedUsers)
}

func TestChannel_RemoveAllowedUser(t *testing.T) {
	req := require.New(t)
	ch := privateChannel("owner", "A", "B")

	req.ErrorIs(ch.RemoveAllowedUser("A", "B"), errors.ErrNotChannelOwner)
	req.ErrorIs(ch.RemoveAllowedUser("owner", "owner"), errors.ErrOwnerRemoval)
	req.ErrorIs(ch.RemoveAllowedUser("owner", "Z"), errors.ErrNotMember)

	req.NoError(ch.RemoveAllowedUser("owner", "A"))
	req.False(ch.CanAccess("A"))
	req.Equal([]string{"B"}, ch.AllowedUsers)

	// The owner keeps access even with an empty allow-list
	req.NoError(ch.RemoveAllowedUser("owner", "B"))
	req.True(ch.CanAccess("owner"))
}

func TestChannel_MembersOfPublicChannelCannotBeManaged(t *testing.T) {
	req := require.New(t)
	ch := Channel{ID: "c0", CreatedBy: "owner"}

	req.ErrorIs(ch.AddAllowedUser("owner", "A"), errors.ErrChannelNotPrivate)
}

func TestPartitionAccessible(t *testing.T) {
	req := require.New(t)
	channels := []Channel{
		{ID: "general"},
		{ID: "mine", IsPrivate: true, CreatedBy: "U1"},
		{ID: "invited", IsPrivate: true, CreatedBy: "U2", AllowedUsers: []string{"U1"}},
		{ID: "closed", IsPrivate: true, CreatedBy: "U2"},
	}

	joinable, denied := PartitionAccessible(channels, "U1")

	req.Len(joinable, 3)
	req.Equal("general", joinable[0].ID)
	req.Len(denied, 1)
	req.Equal("closed", denied[0].ID)
}
