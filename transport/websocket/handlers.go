package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

var (
	errSessionIDRequired = errors.New("session_id is required")
	errCellRequired      = errors.New("cell is required")
)

func (that *Server) handleNewSession(ctx context.Context, req *Payload) (*entity.Session, error) {
	session, err := that.uGame.CreateSession(ctx, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (that *Server) handleGetSession(ctx context.Context, req *Payload) (*entity.Session, error) {
	if req.SessionID == "" {
		return nil, errSessionIDRequired
	}

	return that.uGame.GetSession(ctx, req.SessionID)
}

func (that *Server) handleGameTurn(ctx context.Context, req *Payload) (*entity.Session, error) {
	if req.SessionID == "" {
		return nil, errSessionIDRequired
	}

	if req.Cell == nil {
		return nil, errCellRequired
	}

	return that.uGame.MakeTurn(ctx, req.SessionID, *req.Cell)
}

func (that *Server) handleResetRound(ctx context.Context, req *Payload) (*entity.Session, error) {
	if req.SessionID == "" {
		return nil, errSessionIDRequired
	}

	return that.uGame.ResetRound(ctx, req.SessionID)
}

func (that *Server) handleResetSession(ctx context.Context, req *Payload) (*entity.Session, error) {
	if req.SessionID == "" {
		return nil, errSessionIDRequired
	}

	return that.uGame.ResetSession(ctx, req.SessionID)
}

func (that *Server) handleChangeMode(ctx context.Context, req *Payload) (*entity.Session, error) {
	if req.SessionID == "" {
		return nil, errSessionIDRequired
	}

	return that.uGame.ChangeMode(ctx, req.SessionID, req.Mode)
}
