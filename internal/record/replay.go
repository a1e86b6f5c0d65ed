package record

import (
	"fmt"

	"github.com/rocketscienceinc/sos-backend/internal/apperror"
	"github.com/rocketscienceinc/sos-backend/internal/sos"
)

// Replay rebuilds a game by submitting every recorded move to a fresh engine. The
// recorded players and the recorded winner must agree with what the engine decides.
func Replay(script *Script, opts ...sos.Option) (*sos.Engine, error) {
	variant, err := sos.VariantFor(script.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrReplayDivergence, err)
	}

	engine, err := sos.NewEngine(script.Size, variant, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrReplayDivergence, err)
	}

	for i, move := range script.Moves {
		if current := engine.CurrentPlayer(); move.Player != current {
			return nil, fmt.Errorf("%w: move %d recorded for %s but it is %s's turn",
				apperror.ErrReplayDivergence, i+1, move.Player, current)
		}

		if err = engine.SubmitMove(move.Row, move.Col, move.Mark); err != nil {
			return nil, fmt.Errorf("%w: move %d (%s): %w", apperror.ErrReplayDivergence, i+1, move, err)
		}
	}

	if winner := engine.Winner(); winner != script.Winner {
		return nil, fmt.Errorf("%w: recorded winner %s, replay ended with %s",
			apperror.ErrReplayDivergence, script.Winner, winner)
	}

	return engine, nil
}
