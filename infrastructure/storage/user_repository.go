//go:generate go run go.uber.org/mock/mockgen -source=user_repository.go -destination=../../mocks/mock_user_repository.go -package=mocks
package storage

import (
	"fmt"
	"strings"
	"team-chat/domain"
	"team-chat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(username, email, hashedPassword string) (string, error)
	GetUserByEmail(email string) (domain.User, error)
	FindByID(id string) (domain.User, error)
	FindProfiles(ids []string) ([]domain.UserProfile, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

func userKey(id string) []byte { return []byte("user:" + id) }

func emailKey(email string) []byte {
	return []byte("idx:user:email:" + strings.ToLower(strings.TrimSpace(email)))
}

// CreateUser persists a new account and returns its generated id.
// The email index makes the address unique.
func (u UserRepository) CreateUser(username, email, hashedPassword string) (string, error) {
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UTC(),
	}
	err := u.db.Update(func(txn *badger.Txn) error {
		taken, err := exists(txn, emailKey(email))
		if err != nil {
			return err
		}
		if taken {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(emailKey(email), []byte(user.ID)); err != nil {
			return err
		}
		return set(txn, userKey(user.ID), user)
	})
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (u UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		id, err := getRef(txn, emailKey(email), errors.ErrUserNotFound)
		if err != nil {
			return err
		}
		return get(txn, userKey(string(id)), &user, errors.ErrUserNotFound)
	})
	return user, err
}

func (u UserRepository) FindByID(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		return get(txn, userKey(id), &user, fmt.Errorf("%w: %s", errors.ErrUserNotFound, id))
	})
	return user, err
}

// FindProfiles returns the public projection of every known id. Unknown ids are skipped.
func (u UserRepository) FindProfiles(ids []string) ([]domain.UserProfile, error) {
	profiles := make([]domain.UserProfile, 0, len(ids))
	err := u.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var user domain.User
			err := get(txn, userKey(id), &user, errors.ErrUserNotFound)
			if errors.Is(err, errors.ErrUserNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			profiles = append(profiles, user.Profile())
		}
		return nil
	})
	return profiles, err
}
