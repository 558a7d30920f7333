package ports

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
)

// Entry event names delivered to assembly rooms.
const (
	EventEntryCreated  = "entry:created"
	EventEntryUpdated  = "entry:updated"
	EventEntryDeleted  = "entry:deleted"
	EventEntrySynced   = "entry:synced"
	EventEntryUnlocked = "entry:unlocked"
	EventEntryReturned = "entry:returned"
)

// AssemblyRoom names the broadcast room of operators viewing one assembly date.
func AssemblyRoom(date kernel.ShipDate) string {
	return "assembly:" + date.String()
}

// EntryEvent is the refresh hint sent to operators viewing an assembly date.
type EntryEvent struct {
	EventID     string    `json:"eventId"`
	EntryID     string    `json:"entryId"`
	Status      string    `json:"status"`
	ShippedQty  string    `json:"shippedQty"`
	ConfirmedBy *string   `json:"confirmedBy,omitempty"`
	At          time.Time `json:"at"`
}

// Publisher pushes an event to every client subscribed to room. Delivery is
// best effort: no acknowledgement, no replay, no ordering across entries.
type Publisher interface {
	Publish(ctx context.Context, room string, event string, payload EntryEvent) error
}

// Clock supplies the current instant and today's date in the operating time zone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}
