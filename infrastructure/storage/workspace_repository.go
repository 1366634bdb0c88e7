package storage

import (
	"fmt"
	"team-chat/domain"
	"team-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IWorkspaceRepository interface {
	Save(workspace domain.Workspace) error
	FindByID(id string) (domain.Workspace, error)
}

type WorkspaceRepository struct {
	db *badger.DB
}

func NewWorkspaceRepository(db *badger.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func workspaceKey(id string) []byte { return []byte("workspace:" + id) }

func (w WorkspaceRepository) Save(workspace domain.Workspace) error {
	return w.db.Update(func(txn *badger.Txn) error {
		return set(txn, workspaceKey(workspace.ID), workspace)
	})
}

func (w WorkspaceRepository) FindByID(id string) (domain.Workspace, error) {
	var workspace domain.Workspace
	err := w.db.View(func(txn *badger.Txn) error {
		return get(txn, workspaceKey(id), &workspace, fmt.Errorf("%w: %s", errors.ErrWorkspaceNotFound, id))
	})
	return workspace, err
}
