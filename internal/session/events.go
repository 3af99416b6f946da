package session

import (
	"time"

	"github.com/DoyleJ11/plusminus-client/internal/gate"
	"github.com/DoyleJ11/plusminus-client/internal/protocol"
	"github.com/DoyleJ11/plusminus-client/internal/state"
)

// Event is the union of notifications the session pushes to the presentation
// layer.
type Event interface{ isEvent() }

// StateChanged fires after every canonical state mutation, with the permitted
// actions already recomputed.
type StateChanged struct {
	Snapshot state.Snapshot
	Actions  gate.Actions
}

func (StateChanged) isEvent() {}

type CountdownTicked struct {
	Display   string
	Remaining time.Duration
}

func (CountdownTicked) isEvent() {}

// GuessEvaluated surfaces a guess_result; it never touches the store.
type GuessEvaluated struct {
	Result protocol.GuessResult
}

func (GuessEvaluated) isEvent() {}

// ErrorReported carries a server-side domain error to the UI error slot.
type ErrorReported struct {
	Message string
}

func (ErrorReported) isEvent() {}

// IntentRejected is a locally denied user action; nothing was sent.
type IntentRejected struct {
	Reason string
}

func (IntentRejected) isEvent() {}

type GameOver struct {
	Reason protocol.FinishReason
	Secret string
	Scores []state.PlayerRecord // ranked highest first
}

func (GameOver) isEvent() {}

// Disconnected means the push channel is gone. Reconnecting is the caller's
// decision, not the session's.
type Disconnected struct {
	Err error
}

func (Disconnected) isEvent() {}
