package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrOnlyCensoredFiles = fmt.Errorf("censored directory contains directories")
	ErrEmptyWords        = fmt.Errorf("no words have been found")

	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrWorkspaceNotFound  = fmt.Errorf("workspace not found")
	ErrChannelNotFound    = fmt.Errorf("channel not found")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrFriendshipNotFound = fmt.Errorf("friendship not found")
	ErrNotMember          = fmt.Errorf("user is not a member of the channel")

	ErrPrivateChannel     = fmt.Errorf("Access denied to private channel")
	ErrNotChannelOwner    = fmt.Errorf("only the channel owner can manage members")
	ErrOwnerRemoval       = fmt.Errorf("the channel owner cannot be removed")
	ErrSelfReaction       = fmt.Errorf("you cannot react to your own message")
	ErrNotMessageOwner    = fmt.Errorf("you can only delete your own messages")
	ErrBlocked            = fmt.Errorf("conversation is blocked")
	ErrUnauthenticated    = fmt.Errorf("authentication required")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	ErrAlreadyMember      = fmt.Errorf("user is already a member of the channel")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrChannelNameTaken   = fmt.Errorf("a channel with this name already exists in the workspace")
	ErrFriendshipExists   = fmt.Errorf("friendship already exists")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrChannelNotPrivate  = fmt.Errorf("channel is not private")
	ErrSelfFriendship     = fmt.Errorf("you cannot befriend yourself")
	ErrUnsupportedMedia   = fmt.Errorf("unsupported attachment type")
	ErrTooManyEvents      = fmt.Errorf("too many events, slow down")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrPersistence        = fmt.Errorf("something went wrong, please try again")
	ErrUnknownEvent       = fmt.Errorf("unknown event")
	ErrSinkFull           = fmt.Errorf("connection send buffer is full")
	ErrSinkClosed         = fmt.Errorf("connection is closed")
)

// Kind groups errors the way clients see them.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindAccessDenied Kind = "access_denied"
	KindInvalid      Kind = "invalid"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

var kinds = map[Kind][]error{
	KindNotFound: {
		ErrUserNotFound, ErrWorkspaceNotFound, ErrChannelNotFound,
		ErrMessageNotFound, ErrFriendshipNotFound, ErrNotMember,
	},
	KindAccessDenied: {
		ErrPrivateChannel, ErrNotChannelOwner, ErrOwnerRemoval,
		ErrSelfReaction, ErrNotMessageOwner, ErrBlocked, ErrUnauthenticated,
		ErrInvalidCredentials,
	},
	KindConflict: {
		ErrAlreadyMember, ErrUserAlreadyExists, ErrChannelNameTaken, ErrFriendshipExists,
	},
	KindInvalid: {
		ErrInvalidPayload, ErrInvalidPassword, ErrChannelNotPrivate, ErrSelfFriendship,
		ErrUnsupportedMedia, ErrTooManyEvents, ErrUnknownEvent,
	},
}

// KindOf classifies err. Anything unknown is internal.
func KindOf(err error) Kind {
	for kind, list := range kinds {
		for _, target := range list {
			if stderrors.Is(err, target) {
				return kind
			}
		}
	}
	return KindInternal
}

// PublicMessage is the text sent back to clients.
// Internal failures never leak their cause.
func PublicMessage(err error) string {
	if KindOf(err) == KindInternal {
		return ErrPersistence.Error()
	}
	for _, list := range kinds {
		for _, target := range list {
			if stderrors.Is(err, target) {
				return target.Error()
			}
		}
	}
	return err.Error()
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindAccessDenied:
		if stderrors.Is(err, ErrUnauthenticated) || stderrors.Is(err, ErrInvalidCredentials) {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalid:
		if stderrors.Is(err, ErrTooManyEvents) {
			return http.StatusTooManyRequests
		}
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func Is(err, target error) bool { return stderrors.Is(err, target) }
