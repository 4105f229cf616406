package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// ApplyMove places player's mark on cell and returns the resulting round.
// The given round is never modified; on error it is returned as is.
func ApplyMove(round entity.Round, cell int, player entity.Mark) (entity.Round, error) {
	if err := validateMove(round, player, cell); err != nil {
		return round, fmt.Errorf("invalid turn: %w", err)
	}

	round.Board[cell] = player
	round.Moves++
	updateRoundStatus(&round, player)

	return round, nil
}

// validateMove - checks if the move is valid.
func validateMove(round entity.Round, player entity.Mark, cell int) error {
	if round.IsFinished() {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(round.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if round.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	if round.Turn != player {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// updateRoundStatus - checks the round status after a move.
func updateRoundStatus(round *entity.Round, player entity.Mark) {
	if winner, line, ok := CheckWinner(round.Board); ok {
		round.Status = entity.StatusWon
		round.Winner = winner
		round.Line = &line
		round.Turn = entity.EmptyCell
		return
	}

	if IsFull(round.Board) {
		round.Status = entity.StatusDraw
		round.Turn = entity.EmptyCell
		return
	}

	round.Turn = player.Opponent()
}

// CheckWinner returns the first winning line in entity.WinLines order.
func CheckWinner(board entity.Board) (entity.Mark, entity.Line, bool) {
	for _, line := range entity.WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a, line, true
		}
	}

	return entity.EmptyCell, entity.Line{}, false
}

func IsFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// EmptyCells lists the indexes of unoccupied cells in ascending order.
func EmptyCells(board entity.Board) []int {
	cells := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// Result reports the outcome of a finished round. ok is false while the round is in progress.
func Result(round entity.Round) (entity.Outcome, bool) {
	switch round.Status {
	case entity.StatusWon:
		return entity.OutcomeFor(round.Winner), true
	case entity.StatusDraw:
		return entity.OutcomeDraw, true
	default:
		return "", false
	}
}
