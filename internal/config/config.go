package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	ServerURL string // http(s) base for lobby and leaderboard calls
	SocketURL string // ws(s) base for the push channel
}

// Load reads an optional .env, then the PLUSMINUS_* variables. The socket URL
// defaults to the server URL with the scheme switched to websocket.
func Load(log *zap.Logger) Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", zap.Error(err))
	}

	cfg := Config{
		ServerURL: getenv("PLUSMINUS_SERVER_URL", "http://localhost:8000"),
	}
	cfg.SocketURL = getenv("PLUSMINUS_SOCKET_URL", socketURLFor(cfg.ServerURL))
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func socketURLFor(serverURL string) string {
	switch {
	case strings.HasPrefix(serverURL, "https://"):
		return "wss://" + strings.TrimPrefix(serverURL, "https://")
	case strings.HasPrefix(serverURL, "http://"):
		return "ws://" + strings.TrimPrefix(serverURL, "http://")
	default:
		return serverURL
	}
}
