package broadcast

import (
	"encoding/json"
	"errors"

	"orderdesk/internal/core/ports"
)

var ErrHubStopped = errors.New("broadcast hub stopped")

// Envelope is what travels between instances over a fan-out channel.
type Envelope struct {
	Room    string           `json:"room"`
	Event   string           `json:"event"`
	Payload ports.EntryEvent `json:"payload"`
}

// clientMessage is the frame a websocket client receives.
type clientMessage struct {
	Event string           `json:"event"`
	Data  ports.EntryEvent `json:"data"`
}

func (e Envelope) clientFrame() ([]byte, error) {
	return json.Marshal(clientMessage{Event: e.Event, Data: e.Payload})
}

func decodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(raw, &env)
	return env, err
}
