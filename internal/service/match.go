package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/sos-backend/internal/apperror"
	"github.com/rocketscienceinc/sos-backend/internal/entity"
	"github.com/rocketscienceinc/sos-backend/internal/movesource"
	"github.com/rocketscienceinc/sos-backend/internal/record"
	"github.com/rocketscienceinc/sos-backend/internal/sos"
)

// maxAttempts is how many rejected proposals in a row a seat may make before the match
// is abandoned.
const maxAttempts = 3

var (
	ErrTooManyRejections  = errors.New("too many rejected moves in a row")
	ErrArchiveUnavailable = errors.New("game archive is not configured")
)

// MoveSource proposes a move for a player. Proposals are not trusted; the engine
// validates every one of them.
type MoveSource interface {
	ProposeMove(ctx context.Context, board *entity.Board, player entity.Player) (entity.Placement, error)
}

// rejectionAware sources are told why their proposal was refused.
type rejectionAware interface {
	Rejected(placement entity.Placement, err error)
}

type gameArchiver interface {
	ArchiveGame(ctx context.Context, script *record.Script) (string, error)
}

// Match drives one game between two seats.
type Match struct {
	logger *slog.Logger

	engine  *sos.Engine
	seats   map[entity.Player]MoveSource
	archive gameArchiver
}

// NewMatch seats playerOne and playerTwo at engine. archive may be nil when games are not
// archived.
func NewMatch(logger *slog.Logger, engine *sos.Engine, playerOne, playerTwo MoveSource, archive gameArchiver) *Match {
	return &Match{
		logger: logger.With("component", "match"),
		engine: engine,
		seats: map[entity.Player]MoveSource{
			entity.PlayerOne: playerOne,
			entity.PlayerTwo: playerTwo,
		},
		archive: archive,
	}
}

func (that *Match) Engine() *sos.Engine {
	return that.engine
}

// Play asks the seats for moves until the game ends.
func (that *Match) Play(ctx context.Context) error {
	that.logger.Info("match started", "mode", that.engine.Mode(), "size", that.engine.Size())

	for !that.engine.IsFinished() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("match interrupted: %w", err)
		}

		if err := that.turn(ctx); err != nil {
			return err
		}
	}

	that.logger.Info("match finished", "winner", that.engine.Winner(), "moves", len(that.engine.Moves()))

	return nil
}

func (that *Match) turn(ctx context.Context) error {
	player := that.engine.CurrentPlayer()
	seat := that.seats[player]

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		placement, err := seat.ProposeMove(ctx, that.engine.Board(), player)
		if errors.Is(err, movesource.ErrUnparsableProposal) {
			that.logger.Warn("proposal could not be read", "player", player, "attempt", attempt, "error", err)
			continue
		}

		if err != nil {
			return fmt.Errorf("%s could not propose a move: %w", player, err)
		}

		err = that.engine.SubmitMove(placement.Row, placement.Col, placement.Mark)
		if err == nil {
			return nil
		}

		if !apperror.IsInvalidMove(err) {
			return fmt.Errorf("failed to submit move: %w", err)
		}

		that.logger.Warn("move rejected", "player", player, "attempt", attempt,
			"row", placement.Row, "col", placement.Col, "mark", placement.Mark, "error", err)

		if aware, ok := seat.(rejectionAware); ok {
			aware.Rejected(placement, err)
		}
	}

	return fmt.Errorf("%w: %s", ErrTooManyRejections, player)
}

// SaveFile writes the game log to path.
func (that *Match) SaveFile(path string) error {
	if err := record.Save(path, that.engine); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	that.logger.Info("game saved", "path", path)

	return nil
}

// Archive stores the game log and returns its id.
func (that *Match) Archive(ctx context.Context) (string, error) {
	if that.archive == nil {
		return "", ErrArchiveUnavailable
	}

	id, err := that.archive.ArchiveGame(ctx, record.FromEngine(that.engine))
	if err != nil {
		return "", fmt.Errorf("failed to archive game: %w", err)
	}

	that.logger.Info("game archived", "id", id)

	return id, nil
}
