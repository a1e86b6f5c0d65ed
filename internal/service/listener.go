package service

import (
	"fmt"
	"io"
	"log/slog"
)

// ConsoleListener prints score changes and the final result.
type ConsoleListener struct {
	logger *slog.Logger
	out    io.Writer
}

func NewConsoleListener(logger *slog.Logger, out io.Writer) *ConsoleListener {
	return &ConsoleListener{
		logger: logger.With("component", "console-listener"),
		out:    out,
	}
}

func (that *ConsoleListener) OnScoreUpdate(playerOneScore, playerTwoScore int) {
	that.logger.Debug("score update", "player_one", playerOneScore, "player_two", playerTwoScore)
	fmt.Fprintf(that.out, "Score Update - Player 1: %d, Player 2: %d\n", playerOneScore, playerTwoScore)
}

func (that *ConsoleListener) OnGameEnd(message string) {
	that.logger.Info("game over", "result", message)
	fmt.Fprintln(that.out, message)
}
