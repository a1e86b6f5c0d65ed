package record

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/sos-backend/internal/apperror"
	"github.com/rocketscienceinc/sos-backend/internal/entity"
	"github.com/rocketscienceinc/sos-backend/internal/sos"
)

const (
	keyBoardSize = "Board Size"
	keyGameMode  = "Game Mode"
	keyWinner    = "Winner"
)

var movePattern = regexp.MustCompile(`^([A-Za-z]) at \(\s*(-?\d+)\s*,\s*(-?\d+)\s*\)$`)

// Script is a recorded game: everything needed to replay it move by move.
type Script struct {
	Size   int
	Mode   entity.Mode
	Moves  []entity.Move
	Winner entity.Winner
}

func FromEngine(engine *sos.Engine) *Script {
	return &Script{
		Size:   engine.Size(),
		Mode:   engine.Mode(),
		Moves:  engine.Moves(),
		Winner: engine.Winner(),
	}
}

// WriteTo writes the line-oriented game log. A game still in progress is written with
// "Winner: None".
func (that *Script) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s: %d\n", keyBoardSize, that.Size)
	fmt.Fprintf(&buf, "%s: %s\n", keyGameMode, that.Mode)
	for _, move := range that.Moves {
		buf.WriteString(move.String())
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "%s: %s\n", keyWinner, that.Winner)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func (that *Script) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := that.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the engine's game log to path.
func Save(path string, engine *sos.Engine) error {
	return FromEngine(engine).Save(path)
}

func (that *Script) Save(path string) error {
	data, err := that.MarshalText()
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrIO, err)
	}

	if err = os.WriteFile(path, data, 0o644); err != nil { //nolint: gosec // game logs are not secret
		return fmt.Errorf("%w: %w", apperror.ErrIO, err)
	}

	return nil
}

// Load reads and parses a game log. Nothing is returned unless the whole file is valid.
func Load(path string) (*Script, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrIO, err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a game log. Any line that does not have the expected shape fails the
// whole parse with ErrCorruptFormat; lines are never skipped.
func Parse(r io.Reader) (*Script, error) {
	p := &parser{scanner: bufio.NewScanner(r)}

	script, err := p.parse()
	if err != nil {
		return nil, err
	}

	if err = p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrIO, err)
	}

	return script, nil
}

type parser struct {
	scanner *bufio.Scanner
	line    int
}

func (that *parser) corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", apperror.ErrCorruptFormat, that.line, fmt.Sprintf(format, args...))
}

func (that *parser) next() (string, bool) {
	if !that.scanner.Scan() {
		return "", false
	}
	that.line++
	return strings.TrimRight(that.scanner.Text(), "\r"), true
}

// field splits "Key: value" and checks the key when one is expected.
func (that *parser) field(line, expected string) (string, string, error) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", that.corrupt("missing colon in %q", line)
	}

	key = strings.TrimSpace(key)
	if expected != "" && key != expected {
		return "", "", that.corrupt("expected %q, got %q", expected, key)
	}

	return key, strings.TrimSpace(value), nil
}

func (that *parser) header(expected string) (string, error) {
	line, ok := that.next()
	if !ok {
		return "", that.corrupt("missing %q header", expected)
	}

	_, value, err := that.field(line, expected)
	return value, err
}

func (that *parser) parse() (*Script, error) {
	sizeValue, err := that.header(keyBoardSize)
	if err != nil {
		return nil, err
	}

	size, err := strconv.Atoi(sizeValue)
	if err != nil || size < 1 || size > entity.MaxBoardSize {
		return nil, that.corrupt("invalid board size %q", sizeValue)
	}

	modeValue, err := that.header(keyGameMode)
	if err != nil {
		return nil, err
	}

	mode, err := entity.ParseMode(modeValue)
	if err != nil {
		return nil, that.corrupt("%v", err)
	}

	script := &Script{Size: size, Mode: mode}
	for {
		line, ok := that.next()
		if !ok {
			return nil, that.corrupt("missing %q line", keyWinner)
		}

		key, value, err := that.field(line, "")
		if err != nil {
			return nil, err
		}

		if key == keyWinner {
			script.Winner, err = entity.ParseWinner(value)
			if err != nil {
				return nil, that.corrupt("%v", err)
			}
			break
		}

		move, err := that.move(key, value)
		if err != nil {
			return nil, err
		}
		script.Moves = append(script.Moves, move)
	}

	for {
		line, ok := that.next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) != "" {
			return nil, that.corrupt("unexpected content after %q line", keyWinner)
		}
	}

	return script, nil
}

func (that *parser) move(label, value string) (entity.Move, error) {
	player, err := entity.ParsePlayer(label)
	if err != nil {
		return entity.Move{}, that.corrupt("%v", err)
	}

	match := movePattern.FindStringSubmatch(value)
	if match == nil {
		return entity.Move{}, that.corrupt("malformed move %q", value)
	}

	mark, err := entity.ParseMark(match[1])
	if err != nil || match[1] != mark.String() {
		return entity.Move{}, that.corrupt("invalid mark %q", match[1])
	}

	row, err := strconv.Atoi(match[2])
	if err != nil {
		return entity.Move{}, that.corrupt("invalid row %q", match[2])
	}

	col, err := strconv.Atoi(match[3])
	if err != nil {
		return entity.Move{}, that.corrupt("invalid column %q", match[3])
	}

	return entity.Move{Player: player, Row: row, Col: col, Mark: mark}, nil
}
