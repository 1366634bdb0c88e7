package runtime

import (
	"context"
	"log/slog"
	"team-chat/contract"
	"team-chat/domain"
	"team-chat/domain/event"
	"team-chat/errors"
	"team-chat/observability"
	"time"
)

// Dispatcher delivers one logical event to exactly the live connections entitled to it,
// inside a single namespace. Every emit is synchronous: for one sender, recipients
// see events in the order they were dispatched.
//
// Public channels are served by room broadcast. Private channels never are:
// their access set is resolved on each event and every member is looked up
// individually, so allow-list changes apply without any room churn.
type Dispatcher struct {
	log         *slog.Logger
	registry    *Registry
	sinkTimeout time.Duration
}

func NewDispatcher(log *slog.Logger, registry *Registry, sinkTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		log:         log.With("namespace", registry.Namespace().String()),
		registry:    registry,
		sinkTimeout: sinkTimeout,
	}
}

func (d *Dispatcher) Registry() *Registry { return d.registry }

// Broadcast sends evt to every member of channel except the origin.
// origin may be nil for server initiated events. It returns the number of connections reached.
func (d *Dispatcher) Broadcast(ctx context.Context, channel domain.Channel, origin contract.Connection, evt event.Event) int {
	if channel.IsPrivate {
		exclude := ""
		if origin != nil {
			exclude = origin.UserID()
		}
		return d.ToUsers(ctx, channel.EffectiveMembers(), exclude, evt)
	}

	delivered := 0
	for _, conn := range d.registry.RoomMembers(channel.ID) {
		if origin != nil && conn.ID() == origin.ID() {
			continue
		}
		if d.emit(ctx, conn, evt) {
			delivered++
		}
	}
	return delivered
}

// Echo confirms an action to the connection that performed it.
func (d *Dispatcher) Echo(ctx context.Context, origin contract.Connection, evt event.Event) bool {
	if origin == nil {
		return false
	}
	return d.emit(ctx, origin, evt)
}

// ToUser delivers evt to the live connection of userID.
// An offline user is not an error: the event is dropped and false returned.
func (d *Dispatcher) ToUser(ctx context.Context, userID string, evt event.Event) bool {
	conn, ok := d.registry.Lookup(userID)
	if !ok {
		d.log.Debug("Recipient offline, event dropped", "user_id", userID, "event", evt.Name)
		observability.EventsDropped.WithLabelValues(d.namespace(), "offline").Inc()
		return false
	}
	return d.emit(ctx, conn, evt)
}

// ToUsers delivers evt to each of userIDs that is online, skipping exclude.
func (d *Dispatcher) ToUsers(ctx context.Context, userIDs []string, exclude string, evt event.Event) int {
	delivered := 0
	for _, userID := range userIDs {
		if userID == exclude {
			continue
		}
		if d.ToUser(ctx, userID, evt) {
			delivered++
		}
	}
	return delivered
}

// ToOthers pushes evt to every live connection of the namespace but userID's.
func (d *Dispatcher) ToOthers(ctx context.Context, userID string, evt event.Event) int {
	delivered := 0
	for _, conn := range d.registry.Online(userID) {
		if d.emit(ctx, conn, evt) {
			delivered++
		}
	}
	return delivered
}

// ToTracked notifies the users tracked in channelID, from memory only.
func (d *Dispatcher) ToTracked(ctx context.Context, channelID, exclude string, evt event.Event) int {
	return d.ToUsers(ctx, d.registry.Tracked(channelID), exclude, evt)
}

// Fail sends a scoped error event to the acting connection only. The connection stays open.
func (d *Dispatcher) Fail(ctx context.Context, origin contract.Connection, inbound string, err error) {
	kind := errors.KindOf(err)
	observability.SocketErrors.WithLabelValues(d.namespace(), string(kind)).Inc()
	switch kind {
	case errors.KindInternal:
		d.log.Error("Event handling failed", "event", inbound, "user_id", origin.UserID(), "error", err)
	case errors.KindAccessDenied:
		d.log.Warn("Access denied", "event", inbound, "user_id", origin.UserID(), "error", err)
	default:
		d.log.Debug("Event rejected", "event", inbound, "user_id", origin.UserID(), "error", err)
	}
	d.emit(ctx, origin, event.New(event.Error, event.ErrorPayload{
		Event:   inbound,
		Code:    string(kind),
		Message: errors.PublicMessage(err),
	}))
}

// emit hands evt to one sink, bounded by the sink timeout.
// A failing sink never affects the other recipients.
func (d *Dispatcher) emit(ctx context.Context, conn contract.Connection, evt event.Event) bool {
	sinkCtx, cancel := context.WithTimeout(ctx, d.sinkTimeout)
	defer cancel()
	if err := conn.Consume(sinkCtx, evt); err != nil {
		d.log.Warn("Delivery failed", "user_id", conn.UserID(), "connection_id", conn.ID(), "event", evt.Name, "error", err)
		observability.EventsDropped.WithLabelValues(d.namespace(), "sink").Inc()
		return false
	}
	observability.EventsDelivered.WithLabelValues(d.namespace(), string(evt.Name)).Inc()
	return true
}

func (d *Dispatcher) namespace() string { return d.registry.Namespace().String() }
