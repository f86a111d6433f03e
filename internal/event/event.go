package event

type Type string

const (
	TypeUserCreated      Type = "user.created"
	TypeUserUpdated      Type = "user.updated"
	TypeUserDeleted      Type = "user.deleted"
	TypeSpaceCreated     Type = "space.created"
	TypeSpaceUpdated     Type = "space.updated"
	TypeSpaceDeleted     Type = "space.deleted"
	TypeScheduleReplaced Type = "space.schedule_replaced"
	TypeBookingCreated   Type = "booking.created"
	TypeBookingDeleted   Type = "booking.deleted"
	TypeUserLoggedIn     Type = "auth.login"
)

type Event struct {
	ID         string `json:"id"`
	Type       Type   `json:"type"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id,omitempty"`
	ActorEmail string `json:"actor_email,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
