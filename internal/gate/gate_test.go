package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DoyleJ11/plusminus-client/internal/state"
)

func snapWith(phase state.Phase, spectator, solved bool) state.Snapshot {
	return state.Snapshot{
		Phase: phase,
		Players: []state.PlayerRecord{
			{ID: "me", Name: "Me", IsSpectator: spectator, HasSolved: solved},
			{ID: "other", Name: "Other"},
		},
	}
}

// Full phase x role x solved cross product, evaluated as the lobby owner.
func TestPermittedCrossProduct(t *testing.T) {
	owner := state.Identity{PlayerID: "me", IsOwner: true}

	cases := []struct {
		name      string
		phase     state.Phase
		spectator bool
		solved    bool
		want      Actions
	}{
		{"waiting/player/unsolved", state.PhaseWaiting, false, false, Actions{CanStart: true}},
		{"waiting/player/solved", state.PhaseWaiting, false, true, Actions{CanStart: true}},
		{"waiting/spectator/unsolved", state.PhaseWaiting, true, false, Actions{CanStart: true}},
		{"waiting/spectator/solved", state.PhaseWaiting, true, true, Actions{CanStart: true}},
		{"running/player/unsolved", state.PhaseRunning, false, false, Actions{CanGuess: true}},
		{"running/player/solved", state.PhaseRunning, false, true, Actions{}},
		{"running/spectator/unsolved", state.PhaseRunning, true, false, Actions{}},
		{"running/spectator/solved", state.PhaseRunning, true, true, Actions{}},
		{"finished/player/unsolved", state.PhaseFinished, false, false, Actions{}},
		{"finished/player/solved", state.PhaseFinished, false, true, Actions{}},
		{"finished/spectator/unsolved", state.PhaseFinished, true, false, Actions{}},
		{"finished/spectator/solved", state.PhaseFinished, true, true, Actions{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Permitted(owner, snapWith(tc.phase, tc.spectator, tc.solved))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNonOwnerNeverStarts(t *testing.T) {
	player := state.Identity{PlayerID: "me", IsOwner: false}

	for _, phase := range []state.Phase{state.PhaseWaiting, state.PhaseRunning, state.PhaseFinished} {
		got := Permitted(player, snapWith(phase, false, false))
		assert.False(t, got.CanStart, "phase %s", phase)
	}
}

func TestUnknownPlayerCannotGuess(t *testing.T) {
	stranger := state.Identity{PlayerID: "nobody"}
	snap := snapWith(state.PhaseRunning, false, false)

	got := Permitted(stranger, snap)
	assert.False(t, got.CanGuess, "no player record means no guessing")
}

func TestPermittedIsPure(t *testing.T) {
	id := state.Identity{PlayerID: "me", IsOwner: true}
	snap := snapWith(state.PhaseRunning, false, false)

	first := Permitted(id, snap)
	second := Permitted(id, snap)
	assert.Equal(t, first, second)
	assert.Equal(t, state.PhaseRunning, snap.Phase, "inputs must not be mutated")
}
