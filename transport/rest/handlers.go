package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

type uGame interface {
	CreateSession(ctx context.Context, mode entity.Mode) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error

	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error)
	ResetRound(ctx context.Context, id string) (*entity.Session, error)
	ResetSession(ctx context.Context, id string) (*entity.Session, error)
	ChangeMode(ctx context.Context, id string, mode entity.Mode) (*entity.Session, error)

	History(ctx context.Context, id string) ([]entity.RoundRecord, error)
}

type modeRequest struct {
	Mode entity.Mode `json:"mode"`
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error   string          `json:"error"`
	Session *entity.Session `json:"session,omitempty"`
}

type Handlers struct {
	logger *slog.Logger
	uGame  uGame
}

func NewHandlers(logger *slog.Logger, uGame uGame) *Handlers {
	return &Handlers{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	session, err := that.uGame.CreateSession(r.Context(), req.Mode)
	if err != nil {
		that.writeError(w, "CreateSession", nil, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, session)
}

func (that *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "GetSession", nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "DeleteSession", nil, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	session, err := that.uGame.MakeTurn(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.writeError(w, "MakeTurn", session, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Handlers) ResetRound(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.ResetRound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "ResetRound", nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Handlers) ResetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.ResetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "ResetSession", nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Handlers) ChangeMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	session, err := that.uGame.ChangeMode(r.Context(), chi.URLParam(r, "id"), req.Mode)
	if err != nil {
		that.writeError(w, "ChangeMode", nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Handlers) History(w http.ResponseWriter, r *http.Request) {
	records, err := that.uGame.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "History", nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, records)
}

// writeError maps domain errors to status codes. A rejected move carries the unchanged session.
func (that *Handlers) writeError(w http.ResponseWriter, method string, session *entity.Session, err error) {
	status := StatusFor(err)

	log := that.logger.With("method", method)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("request rejected", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error(), Session: session})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrUnknownMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
