package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/sos-backend/internal/entity"
	"github.com/rocketscienceinc/sos-backend/internal/movesource"
	"github.com/rocketscienceinc/sos-backend/internal/record"
	"github.com/rocketscienceinc/sos-backend/internal/sos"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ProposeMove(ctx context.Context, board *entity.Board, player entity.Player) (entity.Placement, error) {
	args := m.Called(ctx, board, player)
	return args.Get(0).(entity.Placement), args.Error(1)
}

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) ArchiveGame(ctx context.Context, script *record.Script) (string, error) {
	args := m.Called(ctx, script)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func propose(source *mockSource, player entity.Player, row, col int, mark entity.Mark) {
	source.On("ProposeMove", mock.Anything, mock.Anything, player).
		Return(entity.Placement{Row: row, Col: col, Mark: mark}, nil).Once()
}

func newSimpleMatch(t *testing.T, playerOne, playerTwo MoveSource, archive gameArchiver) *Match {
	t.Helper()

	engine, err := sos.NewEngine(3, sos.FirstSOSWins)
	require.NoError(t, err)

	return NewMatch(discardLogger(), engine, playerOne, playerTwo, archive)
}

func TestMatch_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays until the game ends", func(t *testing.T) {
		// Given: two seats that will complete the top row for player one
		one, two := &mockSource{}, &mockSource{}
		propose(one, entity.PlayerOne, 0, 0, entity.MarkS)
		propose(two, entity.PlayerTwo, 0, 1, entity.MarkO)
		propose(one, entity.PlayerOne, 0, 2, entity.MarkS)
		match := newSimpleMatch(t, one, two, nil)

		// When: the match is played
		err := match.Play(ctx)

		// Then: player one wins and every proposal was used
		require.NoError(t, err)
		assert.Equal(t, entity.WinnerPlayerOne, match.Engine().Winner())
		one.AssertExpectations(t)
		two.AssertExpectations(t)
	})

	t.Run("Rejected proposals are asked again", func(t *testing.T) {
		// Given: player one first proposes a cell off the board
		one, two := &mockSource{}, &mockSource{}
		propose(one, entity.PlayerOne, 5, 5, entity.MarkS)
		propose(one, entity.PlayerOne, 0, 0, entity.MarkS)
		propose(two, entity.PlayerTwo, 0, 0, entity.MarkO)
		propose(two, entity.PlayerTwo, 0, 1, entity.MarkO)
		propose(one, entity.PlayerOne, 0, 2, entity.MarkS)
		match := newSimpleMatch(t, one, two, nil)

		// When: the match is played
		err := match.Play(ctx)

		// Then: the rejected moves leave no trace
		require.NoError(t, err)
		assert.Len(t, match.Engine().Moves(), 3)
		assert.Equal(t, entity.WinnerPlayerOne, match.Engine().Winner())
		one.AssertExpectations(t)
		two.AssertExpectations(t)
	})

	t.Run("Gives up after repeated rejections", func(t *testing.T) {
		// Given: a seat that only proposes invalid marks
		one, two := &mockSource{}, &mockSource{}
		one.On("ProposeMove", mock.Anything, mock.Anything, entity.PlayerOne).
			Return(entity.Placement{Row: 0, Col: 0, Mark: entity.Mark('X')}, nil).Times(maxAttempts)
		match := newSimpleMatch(t, one, two, nil)

		// When: the match is played
		err := match.Play(ctx)

		// Then: the match is abandoned with nothing on the board
		require.ErrorIs(t, err, ErrTooManyRejections)
		assert.Empty(t, match.Engine().Moves())
		one.AssertExpectations(t)
	})

	t.Run("Unreadable proposals count as rejections", func(t *testing.T) {
		one, two := &mockSource{}, &mockSource{}
		one.On("ProposeMove", mock.Anything, mock.Anything, entity.PlayerOne).
			Return(entity.Placement{}, movesource.ErrUnparsableProposal).Times(maxAttempts)
		match := newSimpleMatch(t, one, two, nil)

		err := match.Play(ctx)

		require.ErrorIs(t, err, ErrTooManyRejections)
		one.AssertExpectations(t)
	})

	t.Run("Source failures stop the match", func(t *testing.T) {
		// Given: a human seat whose input has ended
		one, two := &mockSource{}, &mockSource{}
		one.On("ProposeMove", mock.Anything, mock.Anything, entity.PlayerOne).
			Return(entity.Placement{}, io.EOF).Once()
		match := newSimpleMatch(t, one, two, nil)

		// When: the match is played
		err := match.Play(ctx)

		// Then: the source error is returned
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("Cancelled context stops before asking", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		one, two := &mockSource{}, &mockSource{}
		match := newSimpleMatch(t, one, two, nil)

		err := match.Play(cancelled)

		require.ErrorIs(t, err, context.Canceled)
		one.AssertNotCalled(t, "ProposeMove", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMatch_SaveFile(t *testing.T) {
	// Given: a match with one move played
	one, two := &mockSource{}, &mockSource{}
	match := newSimpleMatch(t, one, two, nil)
	require.NoError(t, match.Engine().SubmitMove(1, 1, entity.MarkO))
	path := filepath.Join(t.TempDir(), "game.txt")

	// When: the match is saved
	err := match.SaveFile(path)

	// Then: the game log is on disk
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Board Size: 3\nGame Mode: Simple\nPlayer 1: O at (1, 1)\nWinner: None\n", string(data))
}

func TestMatch_Archive(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores the game log", func(t *testing.T) {
		// Given: a match with an archive
		archive := &mockArchiver{}
		match := newSimpleMatch(t, &mockSource{}, &mockSource{}, archive)
		require.NoError(t, match.Engine().SubmitMove(2, 2, entity.MarkS))
		archive.On("ArchiveGame", ctx, record.FromEngine(match.Engine())).Return("game-id", nil).Once()

		// When: the match is archived
		id, err := match.Archive(ctx)

		// Then: the archive id is returned
		require.NoError(t, err)
		assert.Equal(t, "game-id", id)
		archive.AssertExpectations(t)
	})

	t.Run("Without an archive", func(t *testing.T) {
		match := newSimpleMatch(t, &mockSource{}, &mockSource{}, nil)

		_, err := match.Archive(ctx)

		require.ErrorIs(t, err, ErrArchiveUnavailable)
	})
}
