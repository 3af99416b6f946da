package state

import (
	"sort"
	"time"

	"github.com/DoyleJ11/plusminus-client/internal/protocol"
)

// Store holds the canonical local mirror of lobby state. It has a single
// writer (the session dispatch loop), so no locking; every apply method
// mutates in one step and duplicates are no-ops.
type Store struct {
	snap Snapshot
}

func NewStore() *Store {
	return &Store{snap: Snapshot{Phase: PhaseWaiting}}
}

// Current returns a copy safe to hand to readers.
func (s *Store) Current() Snapshot {
	out := s.snap
	out.Players = make([]PlayerRecord, len(s.snap.Players))
	copy(out.Players, s.snap.Players)
	return out
}

// ApplySnapshot replaces state wholesale from a full lobby_state/lobby_update.
func (s *Store) ApplySnapshot(m *protocol.LobbySnapshot) {
	next := Snapshot{
		LobbyID: m.LobbyID,
		OwnerID: m.OwnerID,
		Phase:   parsePhase(m.Status),
		RoundNo: m.RoundNo,
		Players: make([]PlayerRecord, 0, len(m.Players)),
	}
	if next.Phase == PhaseRunning && m.RoundDeadline != nil {
		next.RoundDeadline = EpochToTime(*m.RoundDeadline)
	}
	for _, p := range m.Players {
		next.Players = append(next.Players, PlayerRecord{
			ID:          p.PlayerID,
			Name:        p.Name,
			Score:       p.Score,
			IsSpectator: p.IsSpectator,
			HasSolved:   p.HasSolved,
		})
	}
	s.snap = next
}

// ApplyPlayerJoined appends a record unless the identifier is already present,
// so duplicate join messages cannot produce duplicate players.
func (s *Store) ApplyPlayerJoined(m *protocol.PlayerJoined) {
	if _, ok := s.snap.Player(m.PlayerID); ok {
		return
	}
	s.snap.Players = append(s.snap.Players, PlayerRecord{
		ID:          m.PlayerID,
		Name:        m.Name,
		IsSpectator: m.IsSpectator,
	})
}

// ApplyRoundStarted moves to running and sets round metadata regardless of
// the prior phase; the server is authoritative. Starting from a non-running
// phase means a fresh game, so per-round flags are cleared (the next full
// snapshot reconciles scores).
func (s *Store) ApplyRoundStarted(roundNo int, deadline time.Time) {
	if s.snap.Phase != PhaseRunning {
		for i := range s.snap.Players {
			s.snap.Players[i].HasSolved = false
		}
	}
	s.snap.Phase = PhaseRunning
	s.snap.RoundNo = roundNo
	s.snap.RoundDeadline = deadline
}

// ApplyGameFinished moves to finished and replaces score data from the
// authoritative final list, ranked highest first.
func (s *Store) ApplyGameFinished(m *protocol.GameFinished) {
	prev := s.snap.Players
	final := make([]PlayerRecord, 0, len(m.Scores))
	for _, fs := range m.Scores {
		rec := PlayerRecord{ID: fs.PlayerID, Name: fs.Name, Score: fs.Score}
		if existing, ok := s.snap.Player(fs.PlayerID); ok {
			rec.IsSpectator = existing.IsSpectator
			rec.HasSolved = existing.HasSolved
		}
		final = append(final, rec)
	}
	sort.SliceStable(final, func(i, j int) bool {
		return final[i].Score > final[j].Score
	})
	if len(final) == 0 {
		final = prev
	}
	s.snap.Phase = PhaseFinished
	s.snap.RoundDeadline = time.Time{}
	s.snap.Players = final
}
