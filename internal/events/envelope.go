package events

import "encoding/json"

// Envelope reads only the type of an event so consumers can route it.
type Envelope struct {
	EventType string `json:"event_type"`
}

func TypeOf(payload []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", err
	}
	return env.EventType, nil
}
