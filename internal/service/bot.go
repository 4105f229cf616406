package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/tictactoe"
)

var ErrNoAvailableMoves = errors.New("no available moves")

const centerCell = 4

var cornerCells = [4]int{0, 2, 6, 8}

// BotService picks moves for the automated player.
//
// The strategy is a fixed priority list: win now, block, center, random corner,
// random cell. It does not look ahead, so it can miss a forced win and cannot
// stop a double threat.
type BotService interface {
	ChooseMove(board entity.Board, self, opponent entity.Mark) (int, error)
}

type botService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewBotService builds a bot drawing tie-breaks from rnd.
func NewBotService(rnd *rand.Rand) BotService {
	return &botService{
		rnd: rnd,
	}
}

// NewSeededBotService uses seed for the random source, a zero seed means time-seeded.
func NewSeededBotService(seed int64) BotService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return NewBotService(rand.New(rand.NewSource(seed))) //nolint: gosec // it's ok
}

func (that *botService) ChooseMove(board entity.Board, self, opponent entity.Mark) (int, error) {
	available := tictactoe.EmptyCells(board)
	if len(available) == 0 {
		return 0, ErrNoAvailableMoves
	}

	// win now
	if cell, ok := findLineCompletion(board, self); ok {
		return cell, nil
	}

	// block
	if cell, ok := findLineCompletion(board, opponent); ok {
		return cell, nil
	}

	if board[centerCell] == entity.EmptyCell {
		return centerCell, nil
	}

	corners := make([]int, 0, len(cornerCells))
	for _, cell := range cornerCells {
		if board[cell] == entity.EmptyCell {
			corners = append(corners, cell)
		}
	}

	if len(corners) > 0 {
		return that.pick(corners), nil
	}

	return that.pick(available), nil
}

func (that *botService) pick(cells []int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return cells[that.rnd.Intn(len(cells))]
}

// findLineCompletion returns the empty cell of the first line holding two marks of player.
func findLineCompletion(board entity.Board, player entity.Mark) (int, bool) {
	for _, line := range entity.WinLines {
		marks, empty := 0, -1

		for _, cell := range line {
			switch board[cell] {
			case player:
				marks++
			case entity.EmptyCell:
				empty = cell
			}
		}

		if marks == 2 && empty != -1 {
			return empty, true
		}
	}

	return 0, false
}
