package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/plusminus-client/internal/protocol"
)

func deadlinePtr(t time.Time) *float64 {
	f := float64(t.Unix())
	return &f
}

func TestApplySnapshotReplacesWholesale(t *testing.T) {
	s := NewStore()
	s.ApplyPlayerJoined(&protocol.PlayerJoined{PlayerID: "ghost", Name: "Ghost"})

	deadline := time.Now().Add(90 * time.Second).Truncate(time.Second)
	s.ApplySnapshot(&protocol.LobbySnapshot{
		LobbyID:       "AB12CD",
		Status:        "running",
		RoundNo:       2,
		RoundDeadline: deadlinePtr(deadline),
		OwnerID:       "p1",
		Players: []protocol.WirePlayer{
			{PlayerID: "p1", Name: "Ada", Score: 12, HasSolved: true},
			{PlayerID: "p2", Name: "Bob", IsSpectator: true},
		},
	})

	snap := s.Current()
	assert.Equal(t, PhaseRunning, snap.Phase)
	assert.Equal(t, 2, snap.RoundNo)
	assert.True(t, snap.RoundDeadline.Equal(deadline))
	require.Len(t, snap.Players, 2, "snapshot must drop players absent from it")
	_, ok := snap.Player("ghost")
	assert.False(t, ok)
}

func TestSnapshotDeadlineOnlyWhileRunning(t *testing.T) {
	s := NewStore()
	deadline := deadlinePtr(time.Now())
	s.ApplySnapshot(&protocol.LobbySnapshot{Status: "waiting", RoundDeadline: deadline})
	assert.True(t, s.Current().RoundDeadline.IsZero())

	s.ApplySnapshot(&protocol.LobbySnapshot{Status: "running", RoundDeadline: deadline})
	assert.False(t, s.Current().RoundDeadline.IsZero())
}

func TestDuplicatePlayerJoinedIsIdempotent(t *testing.T) {
	s := NewStore()
	join := &protocol.PlayerJoined{PlayerID: "p9", Name: "Nia"}
	for i := 0; i < 5; i++ {
		s.ApplyPlayerJoined(join)
	}

	snap := s.Current()
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Nia", snap.Players[0].Name)
}

func TestRoundStartedTransitionsFromEveryPhase(t *testing.T) {
	deadline := time.Now().Add(100 * time.Second)

	cases := []struct {
		name  string
		setup func(*Store)
	}{
		{"from waiting", func(*Store) {}},
		{"from running", func(s *Store) { s.ApplyRoundStarted(1, deadline) }},
		{"from finished", func(s *Store) {
			s.ApplyGameFinished(&protocol.GameFinished{Reason: protocol.FinishAllSolved})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore()
			tc.setup(s)
			s.ApplyRoundStarted(4, deadline)

			snap := s.Current()
			assert.Equal(t, PhaseRunning, snap.Phase)
			assert.Equal(t, 4, snap.RoundNo)
			assert.True(t, snap.RoundDeadline.Equal(deadline))
		})
	}
}

func TestRoundStartedAfterFinishClearsSolvedFlags(t *testing.T) {
	s := NewStore()
	s.ApplySnapshot(&protocol.LobbySnapshot{
		Status:  "finished",
		Players: []protocol.WirePlayer{{PlayerID: "p1", Name: "Ada", HasSolved: true}},
	})

	s.ApplyRoundStarted(1, time.Now().Add(time.Minute))

	p, ok := s.Current().Player("p1")
	require.True(t, ok)
	assert.False(t, p.HasSolved, "a fresh game starts with no solved rounds")
}

func TestGameFinishedRanksFinalScores(t *testing.T) {
	s := NewStore()
	s.ApplySnapshot(&protocol.LobbySnapshot{
		Status: "running",
		Players: []protocol.WirePlayer{
			{PlayerID: "b", Name: "B", Score: 5},
			{PlayerID: "a", Name: "A", Score: 6},
		},
	})

	s.ApplyGameFinished(&protocol.GameFinished{
		Reason:       protocol.FinishMaxRounds,
		SecretNumber: "4071",
		Scores: []protocol.FinalScore{
			{PlayerID: "b", Name: "B", Score: 7},
			{PlayerID: "a", Name: "A", Score: 10},
		},
	})

	snap := s.Current()
	assert.Equal(t, PhaseFinished, snap.Phase)
	assert.True(t, snap.RoundDeadline.IsZero())
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "A", snap.Players[0].Name, "A(10) must rank above B(7)")
	assert.Equal(t, 10, snap.Players[0].Score)
	assert.Equal(t, "B", snap.Players[1].Name)
}

func TestCurrentReturnsACopy(t *testing.T) {
	s := NewStore()
	s.ApplyPlayerJoined(&protocol.PlayerJoined{PlayerID: "p1", Name: "Ada"})

	snap := s.Current()
	snap.Players[0].Name = "Mallory"
	snap.Players[0].Score = 9999

	fresh := s.Current()
	assert.Equal(t, "Ada", fresh.Players[0].Name)
	assert.Equal(t, 0, fresh.Players[0].Score)
}
