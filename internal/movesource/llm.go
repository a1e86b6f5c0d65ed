package movesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/rocketscienceinc/sos-backend/internal/entity"
)

const defaultModel = "gpt-4o-mini"

var (
	ErrMissingAPIKey      = errors.New("llm api key is not configured")
	ErrUnparsableProposal = errors.New("could not find a move in the model reply")
	ErrNoChoices          = errors.New("model returned no choices")

	proposalPattern = regexp.MustCompile(`\b([SsOo])(?:\s+at)?[\s,:]+\(?\s*(\d+)\s*[\s,]\s*(\d+)\s*\)?`)
)

const systemPrompt = "You are playing the paper-and-pencil game SOS. " +
	"Reply with exactly one move in the form: <S|O> <row> <col>. Rows and columns start at 0."

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLM asks an OpenAI-compatible chat model for a move. Its reply is parsed but not
// validated; the engine rejects illegal proposals like any other.
type LLM struct {
	logger *slog.Logger
	client chatCompleter
	model  string
}

// NewLLM builds a source for the given API key. An empty baseURL keeps the OpenAI default.
func NewLLM(logger *slog.Logger, apiKey, model, baseURL string) (*LLM, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	conf := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}

	return newLLM(logger, openai.NewClientWithConfig(conf), model), nil
}

func newLLM(logger *slog.Logger, client chatCompleter, model string) *LLM {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if model == "" {
		model = defaultModel
	}

	return &LLM{
		logger: logger.With("component", "llm-move-source", "model", model),
		client: client,
		model:  model,
	}
}

func (that *LLM) ProposeMove(ctx context.Context, board *entity.Board, player entity.Player) (entity.Placement, error) {
	request := openai.ChatCompletionRequest{
		Model: that.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(board, player)},
		},
	}

	response, err := that.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return entity.Placement{}, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return entity.Placement{}, ErrNoChoices
	}

	reply := response.Choices[0].Message.Content
	that.logger.Debug("model replied", "player", player, "reply", reply)

	return parseProposal(reply)
}

func buildPrompt(board *entity.Board, player entity.Player) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s on a %dx%d board ('.' is empty):\n", player, board.Size(), board.Size())
	sb.WriteString(board.String())
	sb.WriteString("Empty cells (row col):")
	for _, cell := range board.EmptyCells() {
		fmt.Fprintf(&sb, " (%d %d)", cell.Row, cell.Col)
	}
	sb.WriteString("\nChoose your move.")

	return sb.String()
}

func parseProposal(reply string) (entity.Placement, error) {
	match := proposalPattern.FindStringSubmatch(reply)
	if match == nil {
		return entity.Placement{}, fmt.Errorf("%w: %q", ErrUnparsableProposal, reply)
	}

	mark, err := entity.ParseMark(match[1])
	if err != nil {
		return entity.Placement{}, err
	}

	row, err := strconv.Atoi(match[2])
	if err != nil {
		return entity.Placement{}, fmt.Errorf("%w: %w", ErrUnparsableProposal, err)
	}

	col, err := strconv.Atoi(match[3])
	if err != nil {
		return entity.Placement{}, fmt.Errorf("%w: %w", ErrUnparsableProposal, err)
	}

	return entity.Placement{Row: row, Col: col, Mark: mark}, nil
}
