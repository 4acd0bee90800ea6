package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeRequestCreated   Type = "request_created"
	TypeRequestAssigned  Type = "request_assigned"
	TypeRequestCompleted Type = "request_completed"
	TypeExecutorCreated  Type = "executor_created"
	TypeExecutorUpdated  Type = "executor_updated"
	TypeExecutorDeleted  Type = "executor_deleted"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelRequest  Channel = "request"
	ChannelExecutor Channel = "executor"
)

var typeToChannel = map[Type]Channel{
	TypeRequestCreated:   ChannelRequest,
	TypeRequestAssigned:  ChannelRequest,
	TypeRequestCompleted: ChannelRequest,
	TypeExecutorCreated:  ChannelExecutor,
	TypeExecutorUpdated:  ChannelExecutor,
	TypeExecutorDeleted:  ChannelExecutor,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the appropriate repository.
type Event struct {
	Type      Type      `json:"type"`
	EntityID  uuid.UUID `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, entityID uuid.UUID) Event {
	return Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}
