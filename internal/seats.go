package application

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/sos-backend/internal/config"
	"github.com/rocketscienceinc/sos-backend/internal/entity"
	"github.com/rocketscienceinc/sos-backend/internal/movesource"
	"github.com/rocketscienceinc/sos-backend/internal/service"
)

// seatFactory builds the move source for each seat. Human seats share one console so
// that a single reader is never scanned twice.
type seatFactory struct {
	logger *slog.Logger
	conf   *config.Config

	in      io.Reader
	out     io.Writer
	console *movesource.Console
}

func newSeatFactory(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) *seatFactory {
	return &seatFactory{
		logger: logger,
		conf:   conf,
		in:     in,
		out:    out,
	}
}

func (that *seatFactory) build(seat config.Seat, player entity.Player) (service.MoveSource, error) {
	switch seat.Kind {
	case config.SeatHuman:
		if that.console == nil {
			that.console = movesource.NewConsole(that.in, that.out)
		}
		return that.console, nil

	case config.SeatRandom:
		seed := that.conf.RandomSeed
		if seed != 0 {
			// distinct but reproducible streams per seat
			seed += uint64(player)
		}
		return movesource.NewRandom(seed), nil

	case config.SeatLLM:
		source, err := movesource.NewLLM(that.logger, that.conf.LLM.APIKey, that.conf.LLM.Model, that.conf.LLM.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("could not create llm seat for %s: %w", player, err)
		}
		return source, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSeat, seat.Kind)
	}
}
