package state

import "time"

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseRunning  Phase = "running"
	PhaseFinished Phase = "finished"
)

// Identity is the immutable session identity fixed at join time.
type Identity struct {
	LobbyID  string
	PlayerID string
	Name     string
	IsOwner  bool
}

type PlayerRecord struct {
	ID          string
	Name        string
	Score       int
	IsSpectator bool
	HasSolved   bool
}

// Snapshot is the client's mirror of shared lobby state.
type Snapshot struct {
	LobbyID       string
	OwnerID       string
	Phase         Phase
	RoundNo       int
	RoundDeadline time.Time // zero unless Phase == PhaseRunning
	Players       []PlayerRecord
}

// Player looks up a record by player identifier.
func (s Snapshot) Player(id string) (PlayerRecord, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerRecord{}, false
}

func parsePhase(status string) Phase {
	switch status {
	case string(PhaseRunning):
		return PhaseRunning
	case string(PhaseFinished):
		return PhaseFinished
	default:
		return PhaseWaiting
	}
}

// EpochToTime converts the wire's epoch-seconds deadline to a time.Time.
func EpochToTime(epochSeconds float64) time.Time {
	sec := int64(epochSeconds)
	nsec := int64((epochSeconds - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
