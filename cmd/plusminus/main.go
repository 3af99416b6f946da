package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DoyleJ11/plusminus-client/internal/channel"
	"github.com/DoyleJ11/plusminus-client/internal/config"
	"github.com/DoyleJ11/plusminus-client/internal/protocol"
	"github.com/DoyleJ11/plusminus-client/internal/query"
	"github.com/DoyleJ11/plusminus-client/internal/session"
	"github.com/DoyleJ11/plusminus-client/internal/state"
)

var (
	flagServer string
	flagSocket string
	flagName   string
	flagJoin   string
)

func main() {
	root := &cobra.Command{
		Use:          "plusminus",
		Short:        "Terminal client for the plus/minus number guessing game",
		RunE:         run,
		SilenceUsage: true,
	}
	root.Flags().StringVar(&flagServer, "server", "", "server base URL (overrides PLUSMINUS_SERVER_URL)")
	root.Flags().StringVar(&flagSocket, "socket", "", "websocket base URL (overrides PLUSMINUS_SOCKET_URL)")
	root.Flags().StringVar(&flagName, "name", "Player", "display name")
	root.Flags().StringVar(&flagJoin, "join", "", "join an existing lobby by code instead of creating one")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Load(logger)
	if flagServer != "" {
		cfg.ServerURL = flagServer
	}
	if flagSocket != "" {
		cfg.SocketURL = flagSocket
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	q := query.New(cfg.ServerURL, logger)

	var joined query.Joined
	if flagJoin != "" {
		joined, err = q.JoinLobby(ctx, flagJoin, flagName)
	} else {
		joined, err = q.CreateLobby(ctx, flagName)
	}
	if err != nil {
		return err
	}
	fmt.Printf("lobby %s — playing as %s (%s)\n", joined.LobbyID, joined.PlayerName, joined.Role)
	fmt.Println(`commands: "start", a 4-digit guess, "board", "top", "quit"`)

	mgr, err := channel.Dial(ctx, cfg.SocketURL, joined.LobbyID, joined.PlayerID, logger)
	if err != nil {
		return err
	}
	defer mgr.Close()

	identity := state.Identity{
		LobbyID:  joined.LobbyID,
		PlayerID: joined.PlayerID,
		Name:     joined.PlayerName,
		IsOwner:  joined.Role == "owner",
	}
	sess := session.New(ctx, identity, mgr, clockwork.NewRealClock(), logger)
	defer sess.Close()

	go renderEvents(sess.Events())

	return readCommands(ctx, sess, q, joined.PlayerID)
}

func readCommands(ctx context.Context, sess *session.Session, q *query.Client, playerID string) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "quit", "exit":
			return nil
		case "start":
			sess.StartGame()
		case "board":
			printBoard(sess.State())
		case "top":
			view, err := q.FetchLeaderboard(ctx, playerID)
			if err != nil {
				fmt.Printf("leaderboard unavailable: %v\n", err)
				continue
			}
			printLeaderboard(view)
		default:
			sess.SubmitGuess(line)
		}
	}
	return scanner.Err()
}

func renderEvents(events <-chan session.Event) {
	for ev := range events {
		switch e := ev.(type) {
		case session.StateChanged:
			fmt.Printf("\n[%s] round %d, %d players", e.Snapshot.Phase, e.Snapshot.RoundNo, len(e.Snapshot.Players))
			if e.Actions.CanStart {
				fmt.Print(` — type "start" to begin`)
			}
			if e.Actions.CanGuess {
				fmt.Print(" — your guess is open")
			}
			fmt.Println()
		case session.CountdownTicked:
			fmt.Printf("\r  time left %s ", e.Display)
		case session.GuessEvaluated:
			printGuess(e)
		case session.GameOver:
			fmt.Printf("\ngame over (%s) — the number was %s\n", e.Reason, e.Secret)
			for i, p := range e.Scores {
				fmt.Printf("  %d. %s — %d\n", i+1, p.Name, p.Score)
			}
		case session.ErrorReported:
			fmt.Printf("\nserver: %s\n", e.Message)
		case session.IntentRejected:
			fmt.Printf("\nrejected: %s\n", e.Reason)
		case session.Disconnected:
			if e.Err != nil {
				fmt.Printf("\ndisconnected: %v\n", e.Err)
			} else {
				fmt.Println("\ndisconnected")
			}
		}
	}
}

func printGuess(e session.GuessEvaluated) {
	r := e.Result
	switch r.Outcome() {
	case protocol.OutcomeCorrect:
		fmt.Printf("\n%s is CORRECT! +%d (total %d)\n", r.Guess, r.ScoreChange, r.TotalScore)
	case protocol.OutcomeCleanMiss:
		fmt.Printf("\n%s: clean miss! +%d bonus (total %d)\n", r.Guess, r.BonusPoints, r.TotalScore)
	default:
		fmt.Printf("\n%s: +%d in place, -%d misplaced, score %+d (total %d)\n",
			r.Guess, r.Plus, r.Minus, r.ScoreChange, r.TotalScore)
	}
}

func printBoard(v session.View) {
	fmt.Printf("lobby %s [%s] round %d\n", v.Snapshot.LobbyID, v.Snapshot.Phase, v.Snapshot.RoundNo)
	for _, p := range v.Snapshot.Players {
		marker := " "
		switch {
		case p.IsSpectator:
			marker = "~"
		case p.HasSolved:
			marker = "*"
		}
		fmt.Printf("  %s %-20s %d\n", marker, p.Name, p.Score)
	}
}

func printLeaderboard(view query.LeaderboardView) {
	fmt.Println("top players:")
	for i, entry := range view.Top {
		fmt.Printf("  %d. %-20s %d\n", i+1, entry.Name, entry.Score)
	}
	if view.Self.Rank != nil {
		fmt.Printf("you: rank %d with %d points\n", *view.Self.Rank, view.Self.Score)
	} else {
		fmt.Printf("you: unranked with %d points\n", view.Self.Score)
	}
}
