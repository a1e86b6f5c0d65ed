package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPlayer = errors.New("unknown player")
	ErrUnknownWinner = errors.New("unknown winner")
	ErrUnknownMode   = errors.New("unknown game mode")
)

type Player int

const (
	PlayerOne Player = 1
	PlayerTwo Player = 2
)

func (p Player) Other() Player {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (p Player) String() string {
	return fmt.Sprintf("Player %d", int(p))
}

// ParsePlayer accepts both "Player 1" and "Player One" labels.
func ParsePlayer(label string) (Player, error) {
	switch label {
	case "Player 1", "Player One":
		return PlayerOne, nil
	case "Player 2", "Player Two":
		return PlayerTwo, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlayer, label)
	}
}

type Winner int

const (
	WinnerNone Winner = iota
	WinnerPlayerOne
	WinnerPlayerTwo
	WinnerDraw
)

func WinnerOf(p Player) Winner {
	if p == PlayerOne {
		return WinnerPlayerOne
	}
	return WinnerPlayerTwo
}

func (w Winner) String() string {
	switch w {
	case WinnerPlayerOne:
		return PlayerOne.String()
	case WinnerPlayerTwo:
		return PlayerTwo.String()
	case WinnerDraw:
		return "Draw"
	default:
		return "None"
	}
}

func ParseWinner(s string) (Winner, error) {
	switch s {
	case "None":
		return WinnerNone, nil
	case "Draw":
		return WinnerDraw, nil
	}

	player, err := ParsePlayer(s)
	if err != nil {
		return WinnerNone, fmt.Errorf("%w: %q", ErrUnknownWinner, s)
	}
	return WinnerOf(player), nil
}

// Mode names the rule variant as it appears in saved games.
type Mode string

const (
	ModeSimple  Mode = "Simple"
	ModeGeneral Mode = "General"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSimple, ModeGeneral:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

type Move struct {
	Player Player `json:"player"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Mark   Mark   `json:"mark"`
}

// String matches a move line of the game log, e.g. "Player 1: S at (0, 2)".
func (m Move) String() string {
	return fmt.Sprintf("%s: %s at (%d, %d)", m.Player, m.Mark, m.Row, m.Col)
}

type Scores struct {
	PlayerOne int `json:"player_one"`
	PlayerTwo int `json:"player_two"`
}

func (s Scores) Of(p Player) int {
	if p == PlayerOne {
		return s.PlayerOne
	}
	return s.PlayerTwo
}

func (s Scores) Add(p Player, points int) Scores {
	if p == PlayerOne {
		s.PlayerOne += points
	} else {
		s.PlayerTwo += points
	}
	return s
}

// MoveLog is append-only.
type MoveLog struct {
	moves []Move
}

func (that *MoveLog) Append(move Move) {
	that.moves = append(that.moves, move)
}

func (that *MoveLog) Len() int {
	return len(that.moves)
}

func (that *MoveLog) Moves() []Move {
	moves := make([]Move, len(that.moves))
	copy(moves, that.moves)
	return moves
}
