package sos

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/sos-backend/internal/entity"
)

var ErrUnknownVariant = errors.New("unknown variant")

// Judgement is what a variant sees once a move has been placed and scanned.
type Judgement struct {
	Mover     entity.Player
	Formed    int
	BoardFull bool
	// Scores before this move is credited.
	Scores entity.Scores
}

// Verdict tells the engine what to do with the move. WinnerNone keeps the game going.
type Verdict struct {
	Points  int
	Winner  entity.Winner
	Message string
}

// Variant is the injected rule set. Both variants share the board and detector; only the
// interpretation of detections and the end condition differ.
type Variant struct {
	mode  entity.Mode
	judge func(Judgement) Verdict
}

var (
	// FirstSOSWins ends the game on the first S-O-S formed; a full board is a draw.
	FirstSOSWins = Variant{mode: entity.ModeSimple, judge: firstSOSWins}
	// CumulativeScore credits every S-O-S and decides on points once the board is full.
	CumulativeScore = Variant{mode: entity.ModeGeneral, judge: cumulativeScore}
)

func VariantFor(mode entity.Mode) (Variant, error) {
	switch mode {
	case entity.ModeSimple:
		return FirstSOSWins, nil
	case entity.ModeGeneral:
		return CumulativeScore, nil
	default:
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, mode)
	}
}

func (v Variant) Mode() entity.Mode {
	return v.mode
}

func (v Variant) Judge(j Judgement) Verdict {
	return v.judge(j)
}

func (v Variant) valid() bool {
	return v.judge != nil
}

func firstSOSWins(j Judgement) Verdict {
	switch {
	case j.Formed > 0:
		return Verdict{
			Winner:  entity.WinnerOf(j.Mover),
			Message: fmt.Sprintf("%s wins by forming an SOS!", j.Mover),
		}
	case j.BoardFull:
		return Verdict{
			Winner:  entity.WinnerDraw,
			Message: "The game is a draw. No SOS formed.",
		}
	default:
		return Verdict{}
	}
}

func cumulativeScore(j Judgement) Verdict {
	verdict := Verdict{Points: j.Formed}
	if !j.BoardFull {
		return verdict
	}

	final := j.Scores.Add(j.Mover, j.Formed)
	switch {
	case final.PlayerOne > final.PlayerTwo:
		verdict.Winner = entity.WinnerPlayerOne
		verdict.Message = fmt.Sprintf("%s wins with %d points!", entity.PlayerOne, final.PlayerOne)
	case final.PlayerTwo > final.PlayerOne:
		verdict.Winner = entity.WinnerPlayerTwo
		verdict.Message = fmt.Sprintf("%s wins with %d points!", entity.PlayerTwo, final.PlayerTwo)
	default:
		verdict.Winner = entity.WinnerDraw
		verdict.Message = fmt.Sprintf("The game is a draw. Both players have %d points.", final.PlayerOne)
	}

	return verdict
}
