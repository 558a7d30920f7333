package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMember struct {
	id       string
	received chan []byte
}

func newFakeMember(id string, buffer int) *fakeMember {
	return &fakeMember{id: id, received: make(chan []byte, buffer)}
}

func (m *fakeMember) ID() string { return m.id }

func (m *fakeMember) Send(msg []byte) bool {
	select {
	case m.received <- msg:
		return true
	default:
		return false
	}
}

func ids(members []Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.ID())
	}
	return out
}

func TestRegistry_AddDoesNotModifyReceiver(t *testing.T) {
	empty := NewRegistry()
	one := empty.Add("assembly:2024-03-05", newFakeMember("a", 1))
	two := one.Add("assembly:2024-03-05", newFakeMember("b", 1))

	assert.Empty(t, empty.Members("assembly:2024-03-05"))
	assert.Equal(t, []string{"a"}, ids(one.Members("assembly:2024-03-05")))
	assert.Equal(t, []string{"a", "b"}, ids(two.Members("assembly:2024-03-05")))
}

func TestRegistry_AddReplacesSameID(t *testing.T) {
	r := NewRegistry().
		Add("room", newFakeMember("a", 1)).
		Add("room", newFakeMember("b", 1)).
		Add("room", newFakeMember("a", 1))

	assert.Equal(t, []string{"b", "a"}, ids(r.Members("room")))
}

func TestRegistry_Remove(t *testing.T) {
	full := NewRegistry().
		Add("room-1", newFakeMember("a", 1)).
		Add("room-1", newFakeMember("b", 1)).
		Add("room-2", newFakeMember("a", 1))

	tests := []struct {
		name      string
		room      string
		id        string
		wantRoom1 []string
		wantRooms int
	}{
		{name: "one of two", room: "room-1", id: "a", wantRoom1: []string{"b"}, wantRooms: 2},
		{name: "unknown member", room: "room-1", id: "zz", wantRoom1: []string{"a", "b"}, wantRooms: 2},
		{name: "unknown room", room: "room-9", id: "a", wantRoom1: []string{"a", "b"}, wantRooms: 2},
		{name: "last member drops room", room: "room-2", id: "a", wantRoom1: []string{"a", "b"}, wantRooms: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := full.Remove(tt.room, tt.id)
			assert.Equal(t, tt.wantRoom1, ids(got.Members("room-1")))
			assert.Equal(t, tt.wantRooms, got.Rooms())
			assert.Equal(t, 2, full.Rooms(), "receiver is untouched")
			require.Len(t, full.Members("room-1"), 2)
		})
	}
}
