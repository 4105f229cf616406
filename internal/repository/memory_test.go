package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	sessionRepo := NewMemorySessionRepository()

	// Given: a stored session
	session := entity.NewSession("abc", entity.ModePvP, time.Now())
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

	// When: the caller mutates its own copy after saving
	session.Score.X = 10

	// Then: the stored session is unaffected
	stored, err := sessionRepo.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Score.X)

	// When: the session is deleted twice
	require.NoError(t, sessionRepo.DeleteByID(ctx, "abc"))
	err = sessionRepo.DeleteByID(ctx, "abc")

	// Then: the second delete reports it missing
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)

	_, err = sessionRepo.GetByID(ctx, "abc")
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
}
