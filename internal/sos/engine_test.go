package sos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/sos-backend/internal/apperror"
	"github.com/rocketscienceinc/sos-backend/internal/entity"
	"github.com/rocketscienceinc/sos-backend/internal/movesource"
)

type mockListener struct {
	mock.Mock
}

func (m *mockListener) OnScoreUpdate(playerOneScore, playerTwoScore int) {
	m.Called(playerOneScore, playerTwoScore)
}

func (m *mockListener) OnGameEnd(message string) {
	m.Called(message)
}

type step struct {
	row, col int
	mark     entity.Mark
}

func playSteps(t *testing.T, engine *Engine, steps []step) {
	t.Helper()

	for i, s := range steps {
		require.NoError(t, engine.SubmitMove(s.row, s.col, s.mark), "move %d", i+1)
	}
}

func TestNewEngine(t *testing.T) {
	t.Run("Starts in progress with player one", func(t *testing.T) {
		// When: a new engine is created
		engine, err := NewEngine(3, FirstSOSWins)
		require.NoError(t, err)

		// Then: the initial state is empty and in progress
		assert.Equal(t, entity.PlayerOne, engine.CurrentPlayer())
		assert.Equal(t, entity.WinnerNone, engine.Winner())
		assert.False(t, engine.IsFinished())
		assert.Equal(t, entity.Scores{}, engine.Scores())
		assert.Empty(t, engine.Moves())
		assert.Empty(t, engine.Result())
		assert.Equal(t, entity.ModeSimple, engine.Mode())
		assert.Equal(t, 3, engine.Size())
	})

	t.Run("Rejects an invalid board size", func(t *testing.T) {
		_, err := NewEngine(0, CumulativeScore)
		require.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
	})

	t.Run("Rejects a zero variant", func(t *testing.T) {
		_, err := NewEngine(3, Variant{})
		require.ErrorIs(t, err, ErrUnknownVariant)
	})
}

func TestEngine_SubmitMove(t *testing.T) {
	t.Run("Accepted move is logged and the turn passes", func(t *testing.T) {
		// Given: a new game
		engine, err := NewEngine(3, FirstSOSWins)
		require.NoError(t, err)

		// When: player one places an S
		err = engine.SubmitMove(1, 1, entity.MarkS)
		require.NoError(t, err)

		// Then: the move is on the board and in the log, and player two is next
		assert.Equal(t, entity.MarkS, engine.Board().Get(1, 1))
		assert.Equal(t, []entity.Move{{Player: entity.PlayerOne, Row: 1, Col: 1, Mark: entity.MarkS}}, engine.Moves())
		assert.Equal(t, entity.PlayerTwo, engine.CurrentPlayer())
	})

	t.Run("Rejected moves leave the game untouched", func(t *testing.T) {
		// Given: a general game where player one has scored
		engine, err := NewEngine(3, CumulativeScore)
		require.NoError(t, err)
		playSteps(t, engine, []step{
			{0, 0, entity.MarkS},
			{2, 2, entity.MarkO},
			{0, 1, entity.MarkO},
			{2, 1, entity.MarkS},
			{0, 2, entity.MarkS},
		})
		before := engine.Board().String()
		scores := engine.Scores()
		moves := engine.Moves()
		credited := engine.Credited()
		current := engine.CurrentPlayer()

		for name, s := range map[string]step{
			"out of bounds": {3, 0, entity.MarkS},
			"negative":      {-1, 1, entity.MarkO},
			"occupied":      {0, 1, entity.MarkS},
			"invalid mark":  {1, 1, entity.Mark('X')},
		} {
			// When: an invalid move is submitted
			err = engine.SubmitMove(s.row, s.col, s.mark)

			// Then: it is rejected and nothing changes
			require.Error(t, err, name)
			assert.True(t, apperror.IsInvalidMove(err), name)
			assert.Equal(t, before, engine.Board().String(), name)
			assert.Equal(t, scores, engine.Scores(), name)
			assert.Equal(t, moves, engine.Moves(), name)
			assert.Equal(t, credited, engine.Credited(), name)
			assert.Equal(t, current, engine.CurrentPlayer(), name)
		}
	})

	t.Run("Board snapshot is detached from the game", func(t *testing.T) {
		engine, err := NewEngine(3, FirstSOSWins)
		require.NoError(t, err)

		snapshot := engine.Board()
		require.NoError(t, snapshot.Place(0, 0, entity.MarkS))

		require.NoError(t, engine.SubmitMove(0, 0, entity.MarkO))
		assert.Equal(t, entity.MarkO, engine.Board().Get(0, 0))
	})
}

func TestEngine_FirstSOSWins(t *testing.T) {
	t.Run("First line wins for the mover", func(t *testing.T) {
		// Given: a simple game with a listener expecting one end notice
		listener := &mockListener{}
		listener.On("OnGameEnd", "Player 1 wins by forming an SOS!").Return().Once()
		engine, err := NewEngine(3, FirstSOSWins, WithListener(listener))
		require.NoError(t, err)

		// When: the players alternate until player one closes the top row
		playSteps(t, engine, []step{
			{0, 0, entity.MarkS},
			{1, 0, entity.MarkS},
			{0, 1, entity.MarkO},
			{1, 1, entity.MarkS},
			{0, 2, entity.MarkS},
		})

		// Then: player one wins on the fifth move and the turn does not pass
		assert.Equal(t, entity.WinnerPlayerOne, engine.Winner())
		assert.True(t, engine.IsFinished())
		assert.Equal(t, "Player 1 wins by forming an SOS!", engine.Result())
		assert.Equal(t, entity.PlayerOne, engine.CurrentPlayer())
		assert.Equal(t, entity.Scores{}, engine.Scores())
		assert.Len(t, engine.Moves(), 5)
		listener.AssertExpectations(t)
	})

	t.Run("Moves after the end are refused", func(t *testing.T) {
		// Given: a game won by player one on the third move
		engine, err := NewEngine(3, FirstSOSWins)
		require.NoError(t, err)
		playSteps(t, engine, []step{
			{0, 0, entity.MarkS},
			{0, 1, entity.MarkO},
			{0, 2, entity.MarkS},
		})
		require.Equal(t, entity.WinnerPlayerOne, engine.Winner())

		// When: another move is submitted
		err = engine.SubmitMove(1, 0, entity.MarkO)

		// Then: ErrGameAlreadyEnded is returned and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrGameAlreadyEnded)
		assert.Equal(t, entity.Empty, engine.Board().Get(1, 0))
		assert.Len(t, engine.Moves(), 3)
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		listener := &mockListener{}
		listener.On("OnGameEnd", "The game is a draw. No SOS formed.").Return().Once()
		engine, err := NewEngine(3, FirstSOSWins, WithListener(listener))
		require.NoError(t, err)

		// When: the board is filled with O-rows around an S-row
		playSteps(t, engine, []step{
			{0, 0, entity.MarkO}, {0, 1, entity.MarkO}, {0, 2, entity.MarkO},
			{1, 0, entity.MarkS}, {1, 1, entity.MarkS}, {1, 2, entity.MarkS},
			{2, 0, entity.MarkO}, {2, 1, entity.MarkO}, {2, 2, entity.MarkO},
		})

		// Then: the game is drawn
		assert.Equal(t, entity.WinnerDraw, engine.Winner())
		assert.True(t, engine.Board().IsFull())
		listener.AssertExpectations(t)
	})
}

func TestEngine_CumulativeScore(t *testing.T) {
	t.Run("Scores accumulate until the board is full", func(t *testing.T) {
		// Given: a general game with a listener
		listener := &mockListener{}
		listener.On("OnScoreUpdate", 1, 0).Return().Once()
		listener.On("OnScoreUpdate", 1, 1).Return().Once()
		listener.On("OnScoreUpdate", 1, 3).Return().Once()
		engine, err := NewEngine(3, CumulativeScore, WithListener(listener))
		require.NoError(t, err)

		// When: six moves are played
		playSteps(t, engine, []step{
			{0, 0, entity.MarkS},
			{1, 0, entity.MarkS},
			{0, 1, entity.MarkO},
			{1, 1, entity.MarkO},
			{0, 2, entity.MarkS},
			{2, 0, entity.MarkS},
		})

		// Then: each player has closed one line
		assert.Equal(t, entity.Scores{PlayerOne: 1, PlayerTwo: 1}, engine.Scores())

		// When: two more moves are played, the second closing two lines at once
		playSteps(t, engine, []step{
			{2, 1, entity.MarkO},
			{2, 2, entity.MarkS},
		})

		// Then: both lines are credited and with one empty cell the game goes on
		assert.Equal(t, entity.Scores{PlayerOne: 1, PlayerTwo: 3}, engine.Scores())
		assert.False(t, engine.IsFinished())
		assert.Equal(t, entity.PlayerOne, engine.CurrentPlayer())
		assert.Len(t, engine.Credited(), 4)
		listener.AssertExpectations(t)

		// When: player one fills the last cell, closing the right column
		listener.On("OnScoreUpdate", 2, 3).Return().Once()
		listener.On("OnGameEnd", "Player 2 wins with 3 points!").Return().Once()
		require.NoError(t, engine.SubmitMove(1, 2, entity.MarkO))

		// Then: the higher score wins
		assert.Equal(t, entity.Scores{PlayerOne: 2, PlayerTwo: 3}, engine.Scores())
		assert.Equal(t, entity.WinnerPlayerTwo, engine.Winner())
		listener.AssertExpectations(t)
	})

	t.Run("Equal scores on a full board are a draw", func(t *testing.T) {
		listener := &mockListener{}
		listener.On("OnGameEnd", "The game is a draw. Both players have 0 points.").Return().Once()
		engine, err := NewEngine(2, CumulativeScore, WithListener(listener))
		require.NoError(t, err)

		playSteps(t, engine, []step{
			{0, 0, entity.MarkS}, {0, 1, entity.MarkO},
			{1, 0, entity.MarkO}, {1, 1, entity.MarkS},
		})

		assert.Equal(t, entity.WinnerDraw, engine.Winner())
		listener.AssertExpectations(t)
	})
}

func TestEngine_TurnAlternation(t *testing.T) {
	ctx := context.Background()

	for _, variant := range []Variant{FirstSOSWins, CumulativeScore} {
		for seed := uint64(1); seed <= 25; seed++ {
			// Given: a fresh game driven by a seeded random source
			engine, err := NewEngine(4, variant)
			require.NoError(t, err)
			source := movesource.NewRandom(seed)

			for !engine.IsFinished() {
				mover := engine.CurrentPlayer()
				placement, err := source.ProposeMove(ctx, engine.Board(), mover)
				require.NoError(t, err)

				// When: an accepted move is applied
				require.NoError(t, engine.SubmitMove(placement.Row, placement.Col, placement.Mark))

				// Then: either the game ended with the mover still current, or the turn passed
				if engine.IsFinished() {
					assert.Equal(t, mover, engine.CurrentPlayer())
				} else {
					assert.Equal(t, mover.Other(), engine.CurrentPlayer())
				}

				// And: re-scanning the last cell never credits anything new
				assert.Zero(t, engine.detector.Scan(engine.board, placement.Row, placement.Col))
			}
		}
	}
}
