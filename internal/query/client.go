// Package query issues the one-shot lobby lookups that live outside the push
// channel: create, join, leaderboard. Each call is a fresh request; failures
// come back as recoverable errors carrying the server's detail text.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

func New(baseURL string, log *zap.Logger) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

// APIError is a server-rejected request with its human-readable detail.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Joined is the result of creating or joining a lobby.
type Joined struct {
	LobbyID    string `json:"lobby_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Role       string `json:"role"` // "owner" | "player" | "spectator"
}

type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

type SelfRank struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Rank     *int   `json:"rank"` // nil when the player has no ranked score yet
}

// LeaderboardView is never merged into lobby state; it is rendered and dropped.
type LeaderboardView struct {
	Top  []LeaderboardEntry `json:"top"`
	Self SelfRank           `json:"me"`
}

func (c *Client) CreateLobby(ctx context.Context, name string) (Joined, error) {
	var out Joined
	err := c.postJSON(ctx, "/api/lobbies", map[string]string{"name": name}, &out)
	if err != nil {
		return Joined{}, fmt.Errorf("create lobby: %w", err)
	}
	return out, nil
}

func (c *Client) JoinLobby(ctx context.Context, lobbyID, name string) (Joined, error) {
	var out Joined
	path := "/api/lobbies/" + url.PathEscape(lobbyID) + "/join"
	err := c.postJSON(ctx, path, map[string]string{"name": name}, &out)
	if err != nil {
		return Joined{}, fmt.Errorf("join lobby: %w", err)
	}
	return out, nil
}

func (c *Client) FetchLeaderboard(ctx context.Context, playerID string) (LeaderboardView, error) {
	var out LeaderboardView
	path := "/api/leaderboard/" + url.PathEscape(playerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return LeaderboardView{}, fmt.Errorf("fetch leaderboard: %w", err)
	}
	if err := c.do(req, &out); err != nil {
		return LeaderboardView{}, fmt.Errorf("fetch leaderboard: %w", err)
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("query failed", zap.String("url", req.URL.Path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		c.log.Warn("query rejected",
			zap.String("url", req.URL.Path), zap.Int("status", resp.StatusCode))
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
