package tictactoe

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func play(t *testing.T, round entity.Round, cells ...int) entity.Round {
	t.Helper()

	for _, cell := range cells {
		var err error
		round, err = ApplyMove(round, cell, round.Turn)
		require.NoError(t, err, "cell %d", cell)
	}

	return round
}

func TestApplyMove(t *testing.T) {
	t.Run("MakeTurn", func(t *testing.T) {
		// Given: a new round
		round := entity.NewRound()

		// When: player X makes a turn
		next, err := ApplyMove(round, 0, x)
		require.NoError(t, err)

		// Then: the mark is placed and the turn passes to O
		expected := entity.Round{
			Board:  entity.Board{x, e, e, e, e, e, e, e, e},
			Turn:   o,
			Status: entity.StatusInProgress,
			Moves:  1,
		}
		require.Equal(t, expected, next)

		// Then: the original round is untouched
		require.Equal(t, entity.NewRound(), round)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: X holds cell 0
		round := play(t, entity.NewRound(), 0)

		// When: O tries to play the same cell
		next, err := ApplyMove(round, 0, o)

		// Then: ErrCellOccupied is returned and the round is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.Equal(t, round, next)
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a new round where X moves first
		round := entity.NewRound()

		// When: O tries to move
		next, err := ApplyMove(round, 1, o)

		// Then: ErrNotYourTurn is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		require.Equal(t, round, next)
	})

	t.Run("Invalid cell", func(t *testing.T) {
		round := entity.NewRound()

		_, err := ApplyMove(round, 9, x)
		assert.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = ApplyMove(round, -1, x)
		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Move after round finished", func(t *testing.T) {
		// Given: a round X has already won
		round := play(t, entity.NewRound(), 0, 3, 1, 4, 2)
		require.Equal(t, entity.StatusWon, round.Status)

		// When: O tries to keep playing
		next, err := ApplyMove(round, 5, o)

		// Then: ErrGameFinished is returned
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		require.Equal(t, round, next)
	})
}

func TestApplyMove_Win(t *testing.T) {
	// Given: X on 0 and 1, O on 3 and 4, X to move
	round := entity.Round{
		Board:  entity.Board{x, x, e, o, o, e, e, e, e},
		Turn:   x,
		Status: entity.StatusInProgress,
		Moves:  4,
	}

	// When: X plays cell 2
	next, err := ApplyMove(round, 2, x)
	require.NoError(t, err)

	// Then: X wins on the top row
	assert.Equal(t, entity.StatusWon, next.Status)
	assert.Equal(t, x, next.Winner)
	require.NotNil(t, next.Line)
	assert.Equal(t, entity.Line{0, 1, 2}, *next.Line)
	assert.Equal(t, e, next.Turn)

	outcome, ok := Result(next)
	require.True(t, ok)
	assert.Equal(t, entity.OutcomeX, outcome)
}

func TestApplyMove_Draw(t *testing.T) {
	// When: a full game is played with no three in a row
	round := play(t, entity.NewRound(), 0, 1, 2, 4, 3, 5, 7, 6, 8)

	// Then: the round is a draw
	assert.Equal(t, entity.StatusDraw, round.Status)
	assert.Equal(t, e, round.Winner)
	assert.Nil(t, round.Line)
	assert.Equal(t, entity.BoardSize, round.Moves)

	outcome, ok := Result(round)
	require.True(t, ok)
	assert.Equal(t, entity.OutcomeDraw, outcome)
}

func TestApplyMove_RejectedMoveLeavesStateUnchanged(t *testing.T) {
	// Given: X→4, O→0, X→8, O→1
	round := play(t, entity.NewRound(), 4, 0, 8, 1)

	// When: X tries cell 0, held by O
	next, err := ApplyMove(round, 0, x)

	// Then: the move is rejected and board and status are unchanged
	require.ErrorIs(t, err, apperror.ErrInvalidMove)
	assert.Equal(t, round, next)
	assert.Equal(t, entity.StatusInProgress, next.Status)
	assert.Equal(t, x, next.Turn)
}

func TestApplyMove_TurnsAlternate(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for game := 0; game < 200; game++ {
		round := entity.NewRound()
		expectedTurn := x

		for round.IsOngoing() {
			require.Equal(t, expectedTurn, round.Turn)

			free := EmptyCells(round.Board)
			cell := free[rnd.Intn(len(free))]

			var err error
			round, err = ApplyMove(round, cell, round.Turn)
			require.NoError(t, err)

			marks := entity.BoardSize - len(EmptyCells(round.Board))
			require.Equal(t, round.Moves, marks)
			require.LessOrEqual(t, marks, entity.BoardSize)

			expectedTurn = expectedTurn.Opponent()
		}

		_, ok := Result(round)
		require.True(t, ok)
	}
}

func TestCheckWinner(t *testing.T) {
	t.Run("Winner X on a column", func(t *testing.T) {
		board := entity.Board{x, o, e, x, o, e, x, e, e}

		winner, line, ok := CheckWinner(board)

		require.True(t, ok)
		assert.Equal(t, x, winner)
		assert.Equal(t, entity.Line{0, 3, 6}, line)
	})

	t.Run("No winner yet", func(t *testing.T) {
		board := entity.Board{x, o, x, e, o, e, x, e, e}

		_, _, ok := CheckWinner(board)

		assert.False(t, ok)
	})

	t.Run("First line in enumeration order is reported", func(t *testing.T) {
		board := entity.Board{o, o, o, e, e, e, o, e, e}

		_, line, ok := CheckWinner(board)

		require.True(t, ok)
		assert.Equal(t, entity.Line{0, 1, 2}, line)
	})
}

func TestResult_InProgress(t *testing.T) {
	_, ok := Result(entity.NewRound())
	assert.False(t, ok)
}
