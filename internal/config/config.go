package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/sos-backend/internal/entity"
)

const (
	SeatHuman  = "human"
	SeatRandom = "random"
	SeatLLM    = "llm"
)

var (
	ErrInvalidSeat    = errors.New("seat kind must be human, random or llm")
	ErrInvalidLevel   = errors.New("log level must be debug, info, warn or error")
	ErrMissingLLMKey  = errors.New("an llm seat needs llm.api-key or OPENAI_API_KEY")
	ErrInvalidSetting = errors.New("invalid setting")
)

type Config struct {
	LogLevel   string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	BoardSize  int         `yaml:"board-size" env:"SOS_BOARD_SIZE" env-default:"3"`
	GameMode   entity.Mode `yaml:"game-mode" env:"SOS_GAME_MODE" env-default:"Simple"`
	RandomSeed uint64      `yaml:"random-seed" env:"SOS_RANDOM_SEED" env-default:"0"`
	PlayerOne  Seat        `yaml:"player-one" env-prefix:"SOS_PLAYER_ONE_"`
	PlayerTwo  Seat        `yaml:"player-two" env-prefix:"SOS_PLAYER_TWO_"`
	Redis      Redis       `yaml:"redis"`
	LLM        LLM         `yaml:"llm"`
}

type Seat struct {
	Kind string `yaml:"kind" env:"KIND" env-default:"human"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// LLM settings. The API key is only ever read from the config file or the environment.
type LLM struct {
	APIKey  string `yaml:"api-key" env:"OPENAI_API_KEY"`
	Model   string `yaml:"model" env:"SOS_LLM_MODEL" env-default:"gpt-4o-mini"`
	BaseURL string `yaml:"base-url" env:"SOS_LLM_BASE_URL"`
}

// Load reads path and applies environment overrides. A missing file is not an error;
// the environment and the defaults are used instead.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	switch _, statErr := os.Stat(path); {
	case statErr == nil:
		err = cleanenv.ReadConfig(path, config)
	case errors.Is(statErr, fs.ErrNotExist):
		err = cleanenv.ReadEnv(config)
	default:
		return nil, fmt.Errorf("unable to access config file: %w", statErr)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Config) Validate() error {
	switch strings.ToLower(that.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, that.LogLevel)
	}

	if that.BoardSize < 1 || that.BoardSize > entity.MaxBoardSize {
		return fmt.Errorf("%w: board-size %d", ErrInvalidSetting, that.BoardSize)
	}

	if _, err := entity.ParseMode(string(that.GameMode)); err != nil {
		return fmt.Errorf("%w: game-mode: %w", ErrInvalidSetting, err)
	}

	for _, seat := range []Seat{that.PlayerOne, that.PlayerTwo} {
		switch seat.Kind {
		case SeatHuman, SeatRandom:
		case SeatLLM:
			if that.LLM.APIKey == "" {
				return ErrMissingLLMKey
			}
		default:
			return fmt.Errorf("%w: %q", ErrInvalidSeat, seat.Kind)
		}
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
