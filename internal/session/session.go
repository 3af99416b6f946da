// Package session runs the single-writer dispatch loop at the heart of the
// client: inbound messages, timer ticks and user intents all funnel through
// one inbox, so every state application is atomic with respect to readers.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/DoyleJ11/plusminus-client/internal/gate"
	"github.com/DoyleJ11/plusminus-client/internal/protocol"
	"github.com/DoyleJ11/plusminus-client/internal/state"
	"github.com/DoyleJ11/plusminus-client/internal/timer"
)

// Transport is the outbound half plus inbound feed of the push channel.
type Transport interface {
	Send(ctx context.Context, out protocol.Outbound) error
	Inbound() <-chan protocol.Inbound
	Err() error
}

type msg interface{ isSessionMsg() }

type inboundMsg struct{ m protocol.Inbound }
type tickMsg struct{ t timer.Tick }
type intentStart struct{}
type intentGuess struct{ guess string }
type channelLost struct{ err error }
type getState struct{ reply chan View }

func (inboundMsg) isSessionMsg()  {}
func (tickMsg) isSessionMsg()     {}
func (intentStart) isSessionMsg() {}
func (intentGuess) isSessionMsg() {}
func (channelLost) isSessionMsg() {}
func (getState) isSessionMsg()    {}

// View is a read-only reflection of session state for callers outside the loop.
type View struct {
	Identity state.Identity
	Snapshot state.Snapshot
	Actions  gate.Actions
}

type Session struct {
	identity  state.Identity
	store     *state.Store
	countdown *timer.Countdown
	transport Transport
	log       *zap.Logger

	inbox  chan msg
	events chan Event

	// Timer epoch for the current round; ticks tagged with an older epoch
	// are discarded so a superseded countdown cannot touch the display.
	epoch    uuid.UUID
	deadline time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, id state.Identity, tr Transport, clock clockwork.Clock, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		identity:  id,
		store:     state.NewStore(),
		countdown: timer.New(clock),
		transport: tr,
		log:       log,
		inbox:     make(chan msg, 64),
		events:    make(chan Event, 32),
		ctx:       ctx,
		cancel:    cancel,
	}
	go s.pumpInbound()
	go s.pumpTicks()
	go s.loop()
	return s
}

// Events is the UI outbox.
func (s *Session) Events() <-chan Event { return s.events }

func (s *Session) StartGame()               { s.post(intentStart{}) }
func (s *Session) SubmitGuess(guess string) { s.post(intentGuess{guess: guess}) }

// State round-trips through the loop, so it never observes a half-applied
// update.
func (s *Session) State() View {
	reply := make(chan View, 1)
	s.post(getState{reply: reply})
	select {
	case v := <-reply:
		return v
	case <-s.ctx.Done():
		return View{Identity: s.identity}
	}
}

func (s *Session) Close() {
	s.cancel()
}

func (s *Session) post(m msg) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

func (s *Session) pumpInbound() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case m, ok := <-s.transport.Inbound():
			if !ok {
				s.post(channelLost{err: s.transport.Err()})
				return
			}
			s.post(inboundMsg{m: m})
		}
	}
}

func (s *Session) pumpTicks() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case t := <-s.countdown.Ticks():
			s.post(tickMsg{t: t})
		}
	}
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.countdown.Stop()
			return

		case m := <-s.inbox:
			switch v := m.(type) {
			case inboundMsg:
				s.handleInbound(v.m)

			case tickMsg:
				if v.t.Epoch != s.epoch {
					break // stale tick from a superseded round
				}
				s.emit(CountdownTicked{Display: v.t.Display, Remaining: v.t.Remaining})

			case intentStart:
				if !gate.Permitted(s.identity, s.store.Current()).CanStart {
					s.emit(IntentRejected{Reason: "only the lobby owner can start a waiting game"})
					break
				}
				s.send(protocol.StartGame{})

			case intentGuess:
				if err := protocol.ValidateGuess(v.guess); err != nil {
					s.emit(IntentRejected{Reason: err.Error()})
					break
				}
				if !gate.Permitted(s.identity, s.store.Current()).CanGuess {
					s.emit(IntentRejected{Reason: "guessing is closed for you this round"})
					break
				}
				s.send(protocol.SubmitGuess{Guess: v.guess})

			case channelLost:
				s.stopCountdown(timer.DisplayIdle)
				s.emit(Disconnected{Err: v.err})

			case getState:
				snap := s.store.Current()
				v.reply <- View{
					Identity: s.identity,
					Snapshot: snap,
					Actions:  gate.Permitted(s.identity, snap),
				}
			}
		}
	}
}

func (s *Session) handleInbound(in protocol.Inbound) {
	switch m := in.(type) {
	case *protocol.Connected:
		s.log.Info("channel confirmed",
			zap.String("lobby_id", m.LobbyID), zap.String("player_id", m.PlayerID))

	case *protocol.LobbySnapshot:
		s.store.ApplySnapshot(m)
		s.afterMutation()

	case *protocol.PlayerJoined:
		s.store.ApplyPlayerJoined(m)
		s.afterMutation()

	case *protocol.RoundStarted:
		s.store.ApplyRoundStarted(m.RoundNo, state.EpochToTime(m.RoundDeadline))
		s.afterMutation()

	case *protocol.GuessResult:
		s.emit(GuessEvaluated{Result: *m})

	case *protocol.GameFinished:
		s.store.ApplyGameFinished(m)
		s.afterMutation()
		snap := s.store.Current()
		s.emit(GameOver{Reason: m.Reason, Secret: m.SecretNumber, Scores: snap.Players})

	case *protocol.ServerError:
		s.emit(ErrorReported{Message: m.Message})
	}
}

// afterMutation reconciles the countdown with the new phase and publishes the
// recomputed state.
func (s *Session) afterMutation() {
	snap := s.store.Current()

	switch {
	case snap.Phase == state.PhaseRunning && !snap.RoundDeadline.IsZero():
		if !snap.RoundDeadline.Equal(s.deadline) {
			s.deadline = snap.RoundDeadline
			s.epoch = uuid.New()
			s.countdown.Start(s.ctx, s.deadline, s.epoch)
		}
	case snap.Phase == state.PhaseFinished:
		s.stopCountdown(timer.DisplayDone)
	default:
		s.stopCountdown(timer.DisplayIdle)
	}

	s.emit(StateChanged{Snapshot: snap, Actions: gate.Permitted(s.identity, snap)})
}

func (s *Session) stopCountdown(pinned string) {
	if s.epoch == uuid.Nil && s.deadline.IsZero() {
		return
	}
	s.countdown.Stop()
	s.epoch = uuid.Nil
	s.deadline = time.Time{}
	s.emit(CountdownTicked{Display: pinned})
}

func (s *Session) send(out protocol.Outbound) {
	if err := s.transport.Send(s.ctx, out); err != nil {
		s.log.Warn("intent send failed", zap.Error(err))
		s.emit(ErrorReported{Message: "could not reach the server: " + err.Error()})
	}
}

func (s *Session) emit(e Event) {
	select {
	case s.events <- e:
	default:
		s.log.Warn("ui outbox full, dropping event")
	}
}
