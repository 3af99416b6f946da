package protocol

import (
	"encoding/json"
	"fmt"
)

// Outbound is the union of client-to-server intents.
type Outbound interface{ isOutbound() }

type StartGame struct{}

func (StartGame) isOutbound() {}

type SubmitGuess struct {
	Guess string `json:"guess"`
}

func (SubmitGuess) isOutbound() {}

// EncodeOutbound wraps an intent in the wire envelope.
func EncodeOutbound(m Outbound) ([]byte, error) {
	var env Envelope
	switch v := m.(type) {
	case StartGame:
		env.Type = "start_game"
	case SubmitGuess:
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode submit_guess: %w", err)
		}
		env.Type = "submit_guess"
		env.Payload = payload
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, m)
	}
	return json.Marshal(env)
}
