package state

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aussiebroadwan/bartab-sdk/pkg/slogx"
)

// Gateway event types the built-in handlers cover.
const (
	EventReady                   = "READY"
	EventUserUpdate              = "USER_UPDATE"
	EventUserNoteUpdate          = "USER_NOTE_UPDATE"
	EventUserSettingsUpdate      = "USER_SETTINGS_UPDATE"
	EventUserGuildSettingsUpdate = "USER_GUILD_SETTINGS_UPDATE"
	EventRelationshipAdd         = "RELATIONSHIP_ADD"
	EventRelationshipRemove      = "RELATIONSHIP_REMOVE"
	EventPresenceUpdate          = "PRESENCE_UPDATE"
)

// HandlerFunc applies one decoded event body to the state and returns the
// handler-specific result (old/new pair) for request/response correlation.
type HandlerFunc func(ctx context.Context, s *State, shard ReadyShard, data json.RawMessage) (any, error)

// Dispatcher routes decoded gateway events to their handlers. Event types
// without a handler are skipped silently so the client stays forward
// compatible with payloads it does not yet understand.
type Dispatcher struct {
	state    *State
	handlers map[string]HandlerFunc
}

func NewDispatcher(s *State) *Dispatcher {
	d := &Dispatcher{
		state:    s,
		handlers: make(map[string]HandlerFunc),
	}
	d.registerBuiltins()
	return d
}

// Register installs or replaces the handler for eventType.
func (d *Dispatcher) Register(eventType string, h HandlerFunc) {
	d.handlers[eventType] = h
}

// Dispatch routes one event. The bool reports whether a handler ran; an
// unknown event type is not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, shard ReadyShard, eventType string, data json.RawMessage) (any, bool, error) {
	h, ok := d.handlers[eventType]
	if !ok {
		slogx.FromContext(ctx).Debug("no handler for event", slog.String("type", eventType))
		return nil, false, nil
	}

	result, err := h(ctx, d.state, shard, data)
	if err != nil {
		return nil, true, err
	}
	return result, true, nil
}

func (d *Dispatcher) registerBuiltins() {
	d.Register(EventReady, handleReady)
	d.Register(EventUserUpdate, handleUserUpdate)
	d.Register(EventUserNoteUpdate, handleNoteUpdate)
	d.Register(EventUserSettingsUpdate, handleSettingsUpdate)
	d.Register(EventUserGuildSettingsUpdate, handleGuildSettingsUpdate)
	d.Register(EventRelationshipAdd, handleRelationshipAdd)
	d.Register(EventRelationshipRemove, handleRelationshipRemove)
	d.Register(EventPresenceUpdate, handlePresenceUpdate)
}
