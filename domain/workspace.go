package domain

import "time"

type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// WorkspaceJoin is the result of joining every reachable channel of a workspace at once.
type WorkspaceJoin struct {
	WorkspaceID string   `json:"workspaceId"`
	Joined      []string `json:"joined"`
	Denied      []string `json:"denied,omitempty"`
	Status      string   `json:"status"`
}

const (
	WorkspaceJoined       = "Joined workspace channels"
	WorkspaceHasNoChannel = "No channels found in workspace"
)
