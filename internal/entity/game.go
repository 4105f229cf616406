package entity

// Mark is a player's symbol occupying a board cell.
type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

// Opponent returns the other side. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"
)

const BoardSize = 9

// Board stores cells row-major, index 0 is the top-left corner.
type Board [BoardSize]Mark

// Line is an index triple that wins when all three cells hold the same mark.
type Line [3]int

// WinLines is enumerated rows top-to-bottom, then columns left-to-right, then the two diagonals.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Round is the state of a single game from the empty board to a terminal status.
type Round struct {
	Board  Board  `json:"board"`
	Turn   Mark   `json:"turn"`
	Status Status `json:"status"`
	Winner Mark   `json:"winner"`
	Line   *Line  `json:"line"`
	Moves  int    `json:"moves"`
}

func NewRound() Round {
	return Round{
		Turn:   PlayerX,
		Status: StatusInProgress,
	}
}

func (that Round) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that Round) IsOngoing() bool {
	return that.Status == StatusInProgress
}
