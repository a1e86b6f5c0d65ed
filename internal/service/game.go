package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/sos-backend/internal/record"
	"github.com/rocketscienceinc/sos-backend/internal/sos"
)

type GameService interface {
	ArchiveGame(ctx context.Context, script *record.Script) (string, error)
	DeleteGame(ctx context.Context, gameID string) error

	GetGameByID(ctx context.Context, id string) (*record.Script, error)
	ReplayGame(ctx context.Context, id string, opts ...sos.Option) (*sos.Engine, error)
}

type gameRepo interface {
	Create(ctx context.Context, script *record.Script) (string, error)
	GetByID(ctx context.Context, id string) (*record.Script, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	gameRepo gameRepo
}

func NewGameService(gameRepo gameRepo) GameService {
	return &gameService{
		gameRepo: gameRepo,
	}
}

func (that *gameService) ArchiveGame(ctx context.Context, script *record.Script) (string, error) {
	id, err := that.gameRepo.Create(ctx, script)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return id, nil
}

func (that *gameService) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *gameService) GetGameByID(ctx context.Context, id string) (*record.Script, error) {
	script, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return script, nil
}

// ReplayGame fetches an archived game and rebuilds it on a fresh engine.
func (that *gameService) ReplayGame(ctx context.Context, id string, opts ...sos.Option) (*sos.Engine, error) {
	script, err := that.GetGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	engine, err := record.Replay(script, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to replay game %s: %w", id, err)
	}

	return engine, nil
}
