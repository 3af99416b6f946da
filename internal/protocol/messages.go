package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the wire frame for every message in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var ErrUnknownType = errors.New("unknown message type")

// Inbound is the union of server-to-client messages.
type Inbound interface{ isInbound() }

type Connected struct {
	LobbyID  string `json:"lobby_id"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

func (*Connected) isInbound() {}

// LobbySnapshot is the full lobby state the server sends wholesale.
// Both "lobby_state" and "lobby_update" carry this payload.
type LobbySnapshot struct {
	LobbyID       string       `json:"lobby_id"`
	Status        string       `json:"status"`
	RoundNo       int          `json:"round_no"`
	RoundDeadline *float64     `json:"round_deadline"` // epoch seconds, null unless running
	OwnerID       string       `json:"owner_id"`
	Players       []WirePlayer `json:"players"`
}

func (*LobbySnapshot) isInbound() {}

type WirePlayer struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	IsSpectator bool   `json:"is_spectator"`
	HasSolved   bool   `json:"has_solved"`
}

type PlayerJoined struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	IsSpectator bool   `json:"is_spectator"`
}

func (*PlayerJoined) isInbound() {}

type RoundStarted struct {
	RoundNo       int     `json:"round_no"`
	RoundDeadline float64 `json:"round_deadline"` // epoch seconds
}

func (*RoundStarted) isInbound() {}

type GuessResult struct {
	RoundNo     int    `json:"round_no"`
	Guess       string `json:"guess"`
	Plus        int    `json:"plus"`
	Minus       int    `json:"minus"`
	BonusPoints int    `json:"bonus_points"`
	ScoreChange int    `json:"score_change"`
	TotalScore  int    `json:"total_score"`
	IsCorrect   bool   `json:"is_correct"`
}

func (*GuessResult) isInbound() {}

type FinishReason string

const (
	FinishAllSolved       FinishReason = "all_solved"
	FinishMaxRounds       FinishReason = "max_rounds"
	FinishNoActivePlayers FinishReason = "no_active_players"
)

type FinalScore struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

type GameFinished struct {
	Reason       FinishReason `json:"reason"`
	SecretNumber string       `json:"secret_number"`
	Scores       []FinalScore `json:"scores"`
}

func (*GameFinished) isInbound() {}

type ServerError struct {
	Message string `json:"message"`
}

func (*ServerError) isInbound() {}

// Decode parses a raw frame into a typed inbound message. Unknown types and
// malformed payloads come back as errors so the dispatch loop can drop them.
func Decode(data []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var msg Inbound
	switch env.Type {
	case "connected":
		msg = &Connected{}
	case "lobby_state", "lobby_update":
		msg = &LobbySnapshot{}
	case "player_joined":
		msg = &PlayerJoined{}
	case "round_started":
		msg = &RoundStarted{}
	case "guess_result":
		msg = &GuessResult{}
	case "game_finished":
		msg = &GameFinished{}
	case "error":
		msg = &ServerError{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	if err := json.Unmarshal(env.Payload, msg); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return msg, nil
}
