package movesource

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/sos-backend/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// Random proposes a uniformly random empty cell with a random mark.
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom seeds the source; a zero seed uses the current time.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Random{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

func (that *Random) ProposeMove(ctx context.Context, board *entity.Board, _ entity.Player) (entity.Placement, error) {
	if err := ctx.Err(); err != nil {
		return entity.Placement{}, err
	}

	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return entity.Placement{}, ErrNoAvailableMoves
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	chosen := availableCells[that.rnd.Intn(len(availableCells))]
	mark := entity.MarkS
	if that.rnd.Intn(2) == 1 {
		mark = entity.MarkO
	}

	return entity.Placement{Row: chosen.Row, Col: chosen.Col, Mark: mark}, nil
}
