package sink

import (
	"context"
	"fmt"
	"sync"
	"team-chat/domain/event"
	"team-chat/errors"

	"github.com/google/uuid"
)

// SocketSink is the delivery handle of one live socket connection.
// The dispatcher pushes into Outbound; the write pump of the connection drains it.
type SocketSink struct {
	Outbound  chan event.Event
	id        string
	userID    string
	done      chan struct{}
	closeOnce sync.Once
}

func NewSocketSink(userID string, bufferSize int) *SocketSink {
	return &SocketSink{
		Outbound: make(chan event.Event, bufferSize),
		id:       uuid.NewString(),
		userID:   userID,
		done:     make(chan struct{}),
	}
}

func (s *SocketSink) ID() string     { return s.id }
func (s *SocketSink) UserID() string { return s.userID }

// Consume is called by the dispatcher.
// A full buffer waits until ctx expires, then the event is dropped.
func (s *SocketSink) Consume(ctx context.Context, e event.Event) error {
	select {
	case <-s.done:
		return errors.ErrSinkClosed
	default:
	}
	select {
	case s.Outbound <- e:
		return nil
	case <-s.done:
		return errors.ErrSinkClosed
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", errors.ErrSinkFull, ctx.Err())
	}
}

// Done is closed once the connection is gone.
func (s *SocketSink) Done() <-chan struct{} { return s.done }

// Close marks the sink dead. Outbound is never closed, so a late Consume cannot panic.
func (s *SocketSink) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
