package broadcast

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	log, _ := test.NewNullLogger()
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func receive(t *testing.T, m *fakeMember) []byte {
	t.Helper()
	select {
	case msg := <-m.received:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("member %s received nothing", m.id)
		return nil
	}
}

func assertSilent(t *testing.T, m *fakeMember) {
	t.Helper()
	select {
	case msg := <-m.received:
		t.Fatalf("member %s unexpectedly received %s", m.id, msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_DeliversOnlyToRoom(t *testing.T) {
	hub := startHub(t)
	inRoom := newFakeMember("a", 4)
	otherRoom := newFakeMember("b", 4)
	hub.Join("assembly:2024-03-05", inRoom)
	hub.Join("assembly:2024-03-06", otherRoom)

	require.NoError(t, hub.Deliver(t.Context(), "assembly:2024-03-05", []byte("hello")))

	assert.Equal(t, []byte("hello"), receive(t, inRoom))
	assertSilent(t, otherRoom)
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := startHub(t)
	m := newFakeMember("a", 4)
	hub.Join("room", m)
	hub.Leave("room", "a")

	require.NoError(t, hub.Deliver(t.Context(), "room", []byte("x")))
	assertSilent(t, m)
}

func TestHub_SlowMemberDropsWithoutBlocking(t *testing.T) {
	hub := startHub(t)
	slow := newFakeMember("slow", 1)
	fast := newFakeMember("fast", 4)
	hub.Join("room", slow)
	hub.Join("room", fast)

	require.NoError(t, hub.Deliver(t.Context(), "room", []byte("1")))
	require.NoError(t, hub.Deliver(t.Context(), "room", []byte("2")))

	assert.Equal(t, []byte("1"), receive(t, fast))
	assert.Equal(t, []byte("2"), receive(t, fast))
	assert.Equal(t, []byte("1"), receive(t, slow))
	assert.Eventually(t, func() bool { return hub.Dropped() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHub_StoppedHubRejectsDelivery(t *testing.T) {
	log, _ := test.NewNullLogger()
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// Fill the buffer so the send case cannot win.
	for range cap(hub.deliveries) {
		hub.deliveries <- delivery{}
	}
	assert.ErrorIs(t, hub.Deliver(context.Background(), "room", []byte("x")), ErrHubStopped)
}

func TestLocalPublisher_SendsClientFrame(t *testing.T) {
	hub := startHub(t)
	m := newFakeMember("a", 1)
	hub.Join("assembly:2024-03-05", m)

	confirmedBy := "Olga"
	publisher := NewLocalPublisher(hub)
	err := publisher.Publish(t.Context(), "assembly:2024-03-05", ports.EventEntrySynced, ports.EntryEvent{
		EventID:     "ev-1",
		EntryID:     "e-1",
		Status:      "synced",
		ShippedQty:  "5",
		ConfirmedBy: &confirmedBy,
	})
	require.NoError(t, err)

	var frame struct {
		Event string `json:"event"`
		Data  struct {
			EntryID     string `json:"entryId"`
			Status      string `json:"status"`
			ConfirmedBy string `json:"confirmedBy"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(receive(t, m), &frame))
	assert.Equal(t, "entry:synced", frame.Event)
	assert.Equal(t, "e-1", frame.Data.EntryID)
	assert.Equal(t, "synced", frame.Data.Status)
	assert.Equal(t, "Olga", frame.Data.ConfirmedBy)
}

func TestRelay_IgnoresGarbage(t *testing.T) {
	hub := startHub(t)
	m := newFakeMember("a", 1)
	hub.Join("room", m)
	log, hook := test.NewNullLogger()

	relay(t.Context(), hub, log, []byte("not json"))

	assertSilent(t, m)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "undecodable broadcast envelope", hook.LastEntry().Message)
}
