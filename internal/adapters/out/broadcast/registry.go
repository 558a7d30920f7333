// Package broadcast delivers entry events to operators watching an assembly
// date. Delivery is best effort: no acknowledgement, no replay, no ordering
// across entries.
package broadcast

// Member is one connected session in a room.
type Member interface {
	ID() string

	// Send queues msg for the session without blocking. It reports false when
	// the session cannot keep up and the message was dropped.
	Send(msg []byte) bool
}

// Registry is an immutable set of room members. Add and Remove return a new
// Registry and never modify the receiver, so a snapshot taken for delivery
// stays valid while membership changes.
type Registry struct {
	rooms map[string][]Member
}

func NewRegistry() Registry {
	return Registry{rooms: map[string][]Member{}}
}

// Add returns a registry with m in room. A member already present under the
// same id is replaced.
func (r Registry) Add(room string, m Member) Registry {
	current := r.rooms[room]
	members := make([]Member, 0, len(current)+1)
	for _, existing := range current {
		if existing.ID() != m.ID() {
			members = append(members, existing)
		}
	}
	members = append(members, m)
	return r.with(room, members)
}

// Remove returns a registry without the member id in room. Empty rooms are dropped.
func (r Registry) Remove(room string, id string) Registry {
	current, ok := r.rooms[room]
	if !ok {
		return r
	}
	members := make([]Member, 0, len(current))
	for _, existing := range current {
		if existing.ID() != id {
			members = append(members, existing)
		}
	}
	return r.with(room, members)
}

// Members returns the sessions in room. The slice must not be modified.
func (r Registry) Members(room string) []Member {
	return r.rooms[room]
}

func (r Registry) Rooms() int {
	return len(r.rooms)
}

func (r Registry) with(room string, members []Member) Registry {
	rooms := make(map[string][]Member, len(r.rooms)+1)
	for k, v := range r.rooms {
		rooms[k] = v
	}
	if len(members) == 0 {
		delete(rooms, room)
	} else {
		rooms[room] = members
	}
	return Registry{rooms: rooms}
}
