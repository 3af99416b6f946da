// Package channel owns the push channel for one session: a single websocket
// to the lobby endpoint, a reader loop that delivers decoded messages in
// arrival order, and serialized outbound intents.
package channel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/plusminus-client/internal/protocol"
)

const writeTimeout = 3 * time.Second

type Manager struct {
	log     *zap.Logger
	conn    *websocket.Conn
	inbound chan protocol.Inbound
	err     error // set by the reader before inbound closes
}

// Dial establishes exactly one channel for the session and starts the reader.
// The inbound channel closes when the transport is lost; Err then reports the
// cause (nil on a clean close). No reconnection is attempted here.
func Dial(ctx context.Context, socketURL, lobbyID, playerID string, log *zap.Logger) (*Manager, error) {
	endpoint := fmt.Sprintf("%s/ws/lobby/%s?player_id=%s",
		strings.TrimRight(socketURL, "/"), url.PathEscape(lobbyID), url.QueryEscape(playerID))

	conn, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial lobby channel: %w", err)
	}

	m := &Manager{
		log:     log,
		conn:    conn,
		inbound: make(chan protocol.Inbound, 16),
	}
	go m.readLoop(ctx)
	return m, nil
}

// Inbound delivers decoded messages in the order the transport produced them.
func (m *Manager) Inbound() <-chan protocol.Inbound { return m.inbound }

// Err reports why the channel closed. Only meaningful after Inbound closes.
func (m *Manager) Err() error { return m.err }

// Send serializes one intent onto the wire.
func (m *Manager) Send(ctx context.Context, out protocol.Outbound) error {
	payload, err := protocol.EncodeOutbound(out)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := m.conn.Write(writeCtx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("send intent: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	return m.conn.Close(websocket.StatusNormalClosure, "bye")
}

func (m *Manager) readLoop(ctx context.Context) {
	defer close(m.inbound)
	for {
		_, data, err := m.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			if ctx.Err() == nil {
				m.err = err
				m.log.Warn("lobby channel lost", zap.Error(err))
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			// Malformed or unrecognized frames never crash the loop.
			m.log.Warn("dropping inbound message", zap.Error(err))
			continue
		}

		select {
		case m.inbound <- msg:
		case <-ctx.Done():
			return
		}
	}
}
