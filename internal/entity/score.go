package entity

// Outcome is the result of a finished round as seen by the score board.
type Outcome string

const (
	OutcomeX    Outcome = "X"
	OutcomeO    Outcome = "O"
	OutcomeDraw Outcome = "draw"
)

// ScoreBoard accumulates results across the rounds of one session.
type ScoreBoard struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

// Record increments the counter matching outcome. Unknown outcomes are ignored.
func (that *ScoreBoard) Record(outcome Outcome) {
	switch outcome {
	case OutcomeX:
		that.X++
	case OutcomeO:
		that.O++
	case OutcomeDraw:
		that.Draws++
	}
}

func (that *ScoreBoard) Reset() {
	*that = ScoreBoard{}
}

// OutcomeFor maps a winning mark to its outcome.
func OutcomeFor(winner Mark) Outcome {
	if winner == PlayerO {
		return OutcomeO
	}
	return OutcomeX
}
