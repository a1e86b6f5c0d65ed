package sos

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/sos-backend/internal/apperror"
	"github.com/rocketscienceinc/sos-backend/internal/entity"
)

// EndListener is notified of score changes and of the end of the game.
type EndListener interface {
	// OnScoreUpdate is called whenever points are credited.
	OnScoreUpdate(playerOneScore, playerTwoScore int)
	// OnGameEnd is called exactly once, when the game ends.
	OnGameEnd(message string)
}

type nopListener struct{}

func (nopListener) OnScoreUpdate(int, int) {}
func (nopListener) OnGameEnd(string)       {}

type Option func(*Engine)

func WithListener(listener EndListener) Option {
	return func(e *Engine) {
		if listener != nil {
			e.listener = listener
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine owns the state of one game and is the only thing that mutates it.
type Engine struct {
	mu sync.Mutex

	logger   *slog.Logger
	listener EndListener
	variant  Variant

	board    *entity.Board
	detector *Detector
	moves    *entity.MoveLog

	current entity.Player
	scores  entity.Scores
	winner  entity.Winner
	result  string
}

func NewEngine(size int, variant Variant, opts ...Option) (*Engine, error) {
	if !variant.valid() {
		return nil, ErrUnknownVariant
	}

	board, err := entity.NewBoard(size)
	if err != nil {
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	engine := &Engine{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		listener: nopListener{},
		variant:  variant,
		board:    board,
		detector: NewDetector(),
		moves:    &entity.MoveLog{},
		current:  entity.PlayerOne,
	}

	for _, opt := range opts {
		opt(engine)
	}
	engine.logger = engine.logger.With("component", "engine", "mode", variant.Mode())

	return engine, nil
}

// notice carries listener events out of the critical section.
type notice struct {
	scored  bool
	scores  entity.Scores
	ended   bool
	message string
}

// SubmitMove places mark for the current player. A rejected move leaves the board, the
// detected lines, the scores and the log exactly as they were.
func (that *Engine) SubmitMove(row, col int, mark entity.Mark) error {
	that.mu.Lock()
	n, err := that.apply(row, col, mark)
	that.mu.Unlock()

	if err != nil {
		return err
	}

	if n.scored {
		that.listener.OnScoreUpdate(n.scores.PlayerOne, n.scores.PlayerTwo)
	}
	if n.ended {
		that.listener.OnGameEnd(n.message)
	}

	return nil
}

func (that *Engine) apply(row, col int, mark entity.Mark) (notice, error) {
	if that.winner != entity.WinnerNone {
		return notice{}, apperror.ErrGameAlreadyEnded
	}

	mover := that.current
	if err := that.board.Place(row, col, mark); err != nil {
		that.logger.Debug("move rejected", "player", mover, "row", row, "col", col, "error", err)
		return notice{}, err
	}

	that.moves.Append(entity.Move{Player: mover, Row: row, Col: col, Mark: mark})

	formed := that.detector.Scan(that.board, row, col)
	verdict := that.variant.Judge(Judgement{
		Mover:     mover,
		Formed:    formed,
		BoardFull: that.board.IsFull(),
		Scores:    that.scores,
	})

	that.logger.Debug("move accepted", "player", mover, "row", row, "col", col, "mark", mark, "formed", formed)

	var n notice
	if verdict.Points > 0 {
		that.scores = that.scores.Add(mover, verdict.Points)
		n.scored = true
		n.scores = that.scores
	}

	if verdict.Winner != entity.WinnerNone {
		that.winner = verdict.Winner
		that.result = verdict.Message
		n.ended = true
		n.message = verdict.Message

		that.logger.Info("game ended", "winner", that.winner, "moves", that.moves.Len(),
			"player_one", that.scores.PlayerOne, "player_two", that.scores.PlayerTwo)

		return n, nil
	}

	that.current = mover.Other()

	return n, nil
}

func (that *Engine) Mode() entity.Mode {
	return that.variant.Mode()
}

func (that *Engine) Size() int {
	return that.board.Size()
}

// Board returns a snapshot; changing it does not affect the game.
func (that *Engine) Board() *entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Clone()
}

func (that *Engine) CurrentPlayer() entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.current
}

func (that *Engine) Scores() entity.Scores {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.scores
}

func (that *Engine) Winner() entity.Winner {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.winner
}

func (that *Engine) IsFinished() bool {
	return that.Winner() != entity.WinnerNone
}

// Result is the end-of-game summary, empty while the game is in progress.
func (that *Engine) Result() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.result
}

func (that *Engine) Moves() []entity.Move {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.moves.Moves()
}

func (that *Engine) Credited() []Triple {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.detector.Credited()
}
