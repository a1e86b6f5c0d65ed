package apperror

import "errors"

var (
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidMark      = errors.New("mark must be S or O")
	ErrGameAlreadyEnded = errors.New("game has already ended")
	ErrInvalidBoardSize = errors.New("board size is out of range")

	ErrIO               = errors.New("game log i/o failed")
	ErrCorruptFormat    = errors.New("game log is corrupt")
	ErrReplayDivergence = errors.New("replay diverged from the recorded game")
)

// IsInvalidMove reports whether err is one of the board rejections. The game state is
// unchanged after such an error and the caller may retry with another move.
func IsInvalidMove(err error) bool {
	return errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrInvalidMark)
}
