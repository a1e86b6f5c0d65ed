package movesource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rocketscienceinc/sos-backend/internal/entity"
)

// Console reads moves typed as "<S|O> <row> <col>" for a human seat. Bounds and occupancy
// are left to the engine; only the shape of the line is checked here.
type Console struct {
	in  *bufio.Scanner
	out io.Writer

	start sync.Once
	lines chan string
	err   error
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    bufio.NewScanner(in),
		out:   out,
		lines: make(chan string),
	}
}

// readLines owns the scanner. It hands lines over one at a time, so a prompt that is
// abandoned on cancellation never loses input typed for the next one.
func (that *Console) readLines() {
	for that.in.Scan() {
		that.lines <- that.in.Text()
	}
	that.err = that.in.Err()
	close(that.lines)
}

func (that *Console) ProposeMove(ctx context.Context, board *entity.Board, player entity.Player) (entity.Placement, error) {
	that.start.Do(func() { go that.readLines() })

	fmt.Fprintf(that.out, "\n%s", board)

	for {
		if err := ctx.Err(); err != nil {
			return entity.Placement{}, err
		}

		fmt.Fprintf(that.out, "%s, enter <S|O> <row> <col>: ", player)

		var line string
		select {
		case <-ctx.Done():
			return entity.Placement{}, ctx.Err()
		case text, ok := <-that.lines:
			if !ok {
				if that.err != nil {
					return entity.Placement{}, fmt.Errorf("failed to read move: %w", that.err)
				}
				return entity.Placement{}, io.EOF
			}
			line = text
		}

		placement, err := parseConsoleLine(line)
		if err != nil {
			fmt.Fprintf(that.out, "could not read move: %v\n", err)
			continue
		}

		return placement, nil
	}
}

// Rejected tells the human why the engine refused their move.
func (that *Console) Rejected(placement entity.Placement, err error) {
	fmt.Fprintf(that.out, "invalid move %s at (%d, %d): %v\n", placement.Mark, placement.Row, placement.Col, err)
}

func parseConsoleLine(line string) (entity.Placement, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return entity.Placement{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	mark, err := entity.ParseMark(fields[0])
	if err != nil {
		return entity.Placement{}, err
	}

	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Placement{}, fmt.Errorf("row: %w", err)
	}

	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return entity.Placement{}, fmt.Errorf("col: %w", err)
	}

	return entity.Placement{Row: row, Col: col, Mark: mark}, nil
}
