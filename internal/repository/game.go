package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/sos-backend/internal/record"
)

const gameKeyPrefix = "game:"

var ErrGameNotFound = errors.New("game not found")

// GameRepository archives finished or unfinished games in the same text layout that is
// written to game files.
type GameRepository interface {
	Create(ctx context.Context, script *record.Script) (string, error)
	GetByID(ctx context.Context, id string) (*record.Script, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) Create(ctx context.Context, script *record.Script) (string, error) {
	text, err := script.MarshalText()
	if err != nil {
		return "", fmt.Errorf("could not marshal game: %w", err)
	}

	id := uuid.NewString()
	if err = that.client.Set(ctx, gameKeyPrefix+id, text, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to set game: %w", err)
	}

	return id, nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*record.Script, error) {
	response, err := that.client.Get(ctx, gameKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	script, err := record.Parse(bytes.NewReader(response))
	if err != nil {
		return nil, fmt.Errorf("failed to parse game %s: %w", id, err)
	}

	return script, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	return nil
}

// ValidID reports whether id can have been issued by Create.
func ValidID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}
