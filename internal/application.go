package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/sos-backend/internal/config"
	"github.com/rocketscienceinc/sos-backend/internal/entity"
	"github.com/rocketscienceinc/sos-backend/internal/record"
	"github.com/rocketscienceinc/sos-backend/internal/repository"
	"github.com/rocketscienceinc/sos-backend/internal/repository/storage"
	"github.com/rocketscienceinc/sos-backend/internal/service"
	"github.com/rocketscienceinc/sos-backend/internal/sos"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// PlayOptions are the per-run choices of the play command.
type PlayOptions struct {
	SavePath string
	Archive  bool

	In  io.Reader
	Out io.Writer
}

// RunPlay - plays one game between the configured seats.
func RunPlay(ctx context.Context, logger *slog.Logger, conf *config.Config, opts PlayOptions) error {
	log := logger.With("component", "app")

	ctx, cancel := withSignals(ctx, log)
	defer cancel()

	variant, err := sos.VariantFor(conf.GameMode)
	if err != nil {
		return fmt.Errorf("could not select rules: %w", err)
	}

	var games service.GameService
	if opts.Archive {
		redisStorage, err := connect(ctx, conf)
		if err != nil {
			return err
		}
		defer closeStorage(log, redisStorage)

		games = service.NewGameService(repository.NewGameRepository(redisStorage.Connection))
	}

	listener := service.NewConsoleListener(logger, opts.Out)
	engine, err := sos.NewEngine(conf.BoardSize, variant, sos.WithLogger(logger), sos.WithListener(listener))
	if err != nil {
		return fmt.Errorf("could not start game: %w", err)
	}

	seats := newSeatFactory(logger, conf, opts.In, opts.Out)
	playerOne, err := seats.build(conf.PlayerOne, entity.PlayerOne)
	if err != nil {
		return err
	}

	playerTwo, err := seats.build(conf.PlayerTwo, entity.PlayerTwo)
	if err != nil {
		return err
	}

	match := service.NewMatch(logger, engine, playerOne, playerTwo, games)
	playErr := match.Play(ctx)

	fmt.Fprintf(opts.Out, "\n%s", engine.Board())

	// An interrupted game is still worth keeping.
	if opts.SavePath != "" {
		if err = match.SaveFile(opts.SavePath); err != nil {
			return errors.Join(playErr, err)
		}
		fmt.Fprintf(opts.Out, "Game saved to %s\n", opts.SavePath)
	}

	if opts.Archive {
		id, err := match.Archive(context.WithoutCancel(ctx))
		if err != nil {
			return errors.Join(playErr, err)
		}
		fmt.Fprintf(opts.Out, "Game archived as %s\n", id)
	}

	if playErr != nil {
		return fmt.Errorf("game did not finish: %w", playErr)
	}

	return nil
}

// RunReplay - replays a saved game file and prints the outcome.
func RunReplay(logger *slog.Logger, path string, out io.Writer) error {
	script, err := record.Load(path)
	if err != nil {
		return fmt.Errorf("could not load %s: %w", path, err)
	}

	engine, err := record.Replay(script, sos.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("could not replay %s: %w", path, err)
	}

	printOutcome(out, engine)

	return nil
}

// RunShow - fetches an archived game and replays it.
func RunShow(ctx context.Context, logger *slog.Logger, conf *config.Config, id string, out io.Writer) error {
	log := logger.With("component", "app")

	if !repository.ValidID(id) {
		return fmt.Errorf("%w: %q", repository.ErrGameNotFound, id)
	}

	redisStorage, err := connect(ctx, conf)
	if err != nil {
		return err
	}
	defer closeStorage(log, redisStorage)

	games := service.NewGameService(repository.NewGameRepository(redisStorage.Connection))
	engine, err := games.ReplayGame(ctx, id, sos.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("could not show game: %w", err)
	}

	printOutcome(out, engine)

	return nil
}

// printOutcome reports a replayed game. Replays run without a listener, so nothing is
// printed for a game that fails to replay.
func printOutcome(out io.Writer, engine *sos.Engine) {
	fmt.Fprintf(out, "\n%s", engine.Board())

	if engine.IsFinished() {
		fmt.Fprintln(out, engine.Result())
		return
	}

	scores := engine.Scores()
	fmt.Fprintf(out, "Game in progress, %s to move. Player 1: %d, Player 2: %d\n",
		engine.CurrentPlayer(), scores.PlayerOne, scores.PlayerTwo)
}

func connect(ctx context.Context, conf *config.Config) (*storage.RedisStorage, error) {
	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return redisStorage, nil
}

func closeStorage(log *slog.Logger, redisStorage *storage.RedisStorage) {
	if err := redisStorage.Close(); err != nil {
		log.Error("could not close redis storage", "error", err)
	}
}

func withSignals(parent context.Context, log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()

	return ctx, cancel
}
