package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/sos-backend/internal/apperror"
)

type Mark byte

const (
	Empty Mark = 0
	MarkS Mark = 'S'
	MarkO Mark = 'O'
)

func (m Mark) IsValid() bool {
	return m == MarkS || m == MarkO
}

func (m Mark) String() string {
	if m == Empty {
		return "."
	}
	return string(rune(m))
}

// ParseMark accepts "S" or "O" in either case.
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "S":
		return MarkS, nil
	case "O":
		return MarkO, nil
	default:
		return Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}
}

type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Less orders coordinates row-major.
func (c Coord) Less(other Coord) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Col < other.Col
}

// Placement is a candidate move before it is attributed to a player.
type Placement struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Mark Mark `json:"mark"`
}

// Board is a square grid of marks. A cell, once marked, never changes.
type Board struct {
	size   int
	cells  []Mark
	filled int
}

// MaxBoardSize bounds the grid so a board always fits comfortably in memory.
const MaxBoardSize = 64

func NewBoard(size int) (*Board, error) {
	if size < 1 || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: got %d", apperror.ErrInvalidBoardSize, size)
	}

	return &Board{
		size:  size,
		cells: make([]Mark, size*size),
	}, nil
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// Place writes mark at (row, col). Turn order and scoring are not the board's concern.
func (that *Board) Place(row, col int, mark Mark) error {
	if !that.InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d) on a %dx%d board", apperror.ErrOutOfBounds, row, col, that.size, that.size)
	}

	if !mark.IsValid() {
		return fmt.Errorf("%w: got %q", apperror.ErrInvalidMark, byte(mark))
	}

	idx := row*that.size + col
	if that.cells[idx] != Empty {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, row, col)
	}

	that.cells[idx] = mark
	that.filled++

	return nil
}

// Get returns Empty for coordinates outside the board.
func (that *Board) Get(row, col int) Mark {
	if !that.InBounds(row, col) {
		return Empty
	}
	return that.cells[row*that.size+col]
}

func (that *Board) IsFull() bool {
	return that.filled == len(that.cells)
}

func (that *Board) EmptyCells() []Coord {
	free := make([]Coord, 0, len(that.cells)-that.filled)
	for i, cell := range that.cells {
		if cell == Empty {
			free = append(free, Coord{Row: i / that.size, Col: i % that.size})
		}
	}
	return free
}

// Clone returns an independent copy, used as the snapshot handed to move sources.
func (that *Board) Clone() *Board {
	cells := make([]Mark, len(that.cells))
	copy(cells, that.cells)

	return &Board{
		size:   that.size,
		cells:  cells,
		filled: that.filled,
	}
}

// String renders one row per line, cells separated by spaces, empty cells as '.'.
func (that *Board) String() string {
	var sb strings.Builder
	for row := 0; row < that.size; row++ {
		for col := 0; col < that.size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(that.Get(row, col).String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
