// Package gate decides which actions the local player may take, purely from
// the session identity and the mirrored lobby snapshot.
package gate

import "github.com/DoyleJ11/plusminus-client/internal/state"

type Actions struct {
	CanStart bool
	CanGuess bool
}

// Permitted is pure and deterministic: owner + waiting phase unlocks start;
// running phase + an active, unsolved player record unlocks guessing.
// Everything else is denied.
func Permitted(id state.Identity, snap state.Snapshot) Actions {
	var a Actions
	a.CanStart = id.IsOwner && snap.Phase == state.PhaseWaiting
	if snap.Phase == state.PhaseRunning {
		if p, ok := snap.Player(id.PlayerID); ok && !p.IsSpectator && !p.HasSolved {
			a.CanGuess = true
		}
	}
	return a
}
