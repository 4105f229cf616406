package apperror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveErrorsWrapInvalidMove(t *testing.T) {
	for _, err := range []error{ErrGameFinished, ErrNotYourTurn, ErrCellOccupied, ErrInvalidCell} {
		assert.ErrorIs(t, err, ErrInvalidMove, err.Error())
	}

	assert.NotErrorIs(t, ErrSessionNotFound, ErrInvalidMove)
}
