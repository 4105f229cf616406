package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-arena/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type historyRepo interface {
	Save(ctx context.Context, record *entity.RoundRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.RoundRecord, error)
}

type botService interface {
	ChooseMove(board entity.Board, self, opponent entity.Mark) (int, error)
}

// GameManager owns sessions: every operation loads a session, runs it through the rules
// engine and stores the result. Operations on one session are serialised.
type GameManager struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	historyRepo historyRepo
	bot         botService
	botDelay    time.Duration

	now func() time.Time

	locksMutex sync.Mutex
	locks      map[string]*sessionLock
}

// sessionLock is dropped from GameManager.locks once nobody holds or waits for it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, historyRepo historyRepo, bot botService, botDelay time.Duration) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo: sessionRepo,
		historyRepo: historyRepo,
		bot:         bot,
		botDelay:    botDelay,

		now:   time.Now,
		locks: make(map[string]*sessionLock),
	}
}

func (that *GameManager) CreateSession(ctx context.Context, mode entity.Mode) (*entity.Session, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownMode, mode)
	}

	session := entity.NewSession(pkg.GenerateSessionID(), mode, that.now())

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID, "mode", mode)

	return session, nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// MakeTurn plays cell for the side whose turn it is. With a bot in the session only X may be
// played by the caller and the bot answers before MakeTurn returns.
// A rejected move returns the unchanged session together with the error.
func (that *GameManager) MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error) {
	unlock := that.lock(id)
	defer unlock()

	log := that.logger.With("method", "MakeTurn", "sessionID", id)

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	player := session.Round.Turn
	if session.IsWithBot() {
		player = entity.PlayerX
	}

	round, err := tictactoe.ApplyMove(session.Round, cell, player)
	if err != nil {
		log.Debug("move rejected", "cell", cell, "player", player, "error", err)
		return session, fmt.Errorf("failed make turn: %w", err)
	}

	var finished []entity.RoundRecord

	session.Round = round
	if record, ok := that.finishRound(session); ok {
		finished = append(finished, record)
	}

	if session.IsBotTurn() {
		if err = that.waitBot(ctx); err != nil {
			return nil, err
		}

		if err = that.playBot(session); err != nil {
			return nil, err
		}

		if record, ok := that.finishRound(session); ok {
			finished = append(finished, record)
		}
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	for i := range finished {
		log.Info("round finished", "round", finished[i].Number, "outcome", finished[i].Outcome)

		if err = that.historyRepo.Save(ctx, &finished[i]); err != nil {
			log.Error("failed to save round history", "error", err)
		}
	}

	return session, nil
}

// ResetRound clears the board and keeps the score.
func (that *GameManager) ResetRound(ctx context.Context, id string) (*entity.Session, error) {
	return that.modify(ctx, id, func(session *entity.Session) error {
		session.ResetRound()
		return nil
	})
}

// ResetSession clears the board and zeroes the score.
func (that *GameManager) ResetSession(ctx context.Context, id string) (*entity.Session, error) {
	return that.modify(ctx, id, func(session *entity.Session) error {
		session.ResetSession()
		return nil
	})
}

// ChangeMode switches between pvp and bot play, which starts a new game.
// Selecting the current mode leaves the session untouched.
func (that *GameManager) ChangeMode(ctx context.Context, id string, mode entity.Mode) (*entity.Session, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownMode, mode)
	}

	return that.modify(ctx, id, func(session *entity.Session) error {
		if session.Mode == mode {
			return nil
		}

		session.Mode = mode
		session.ResetSession()
		return nil
	})
}

func (that *GameManager) DeleteSession(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session deleted", "sessionID", id)

	return nil
}

// History lists the finished rounds of a session, oldest first.
func (that *GameManager) History(ctx context.Context, id string) ([]entity.RoundRecord, error) {
	if _, err := that.GetSession(ctx, id); err != nil {
		return nil, err
	}

	records, err := that.historyRepo.ListBySession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return records, nil
}

func (that *GameManager) modify(ctx context.Context, id string, change func(session *entity.Session) error) (*entity.Session, error) {
	unlock := that.lock(id)
	defer unlock()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = change(session); err != nil {
		return nil, err
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// finishRound feeds a terminal round into the score board and builds its history record.
func (that *GameManager) finishRound(session *entity.Session) (entity.RoundRecord, bool) {
	outcome, ok := tictactoe.Result(session.Round)
	if !ok {
		return entity.RoundRecord{}, false
	}

	session.Score.Record(outcome)
	session.Rounds++

	return entity.RoundRecord{
		SessionID:  session.ID,
		Number:     session.Rounds,
		Mode:       session.Mode,
		Outcome:    outcome,
		Line:       session.Round.Line,
		Board:      session.Round.Board,
		Moves:      session.Round.Moves,
		FinishedAt: that.now(),
	}, true
}

func (that *GameManager) playBot(session *entity.Session) error {
	cell, err := that.bot.ChooseMove(session.Round.Board, entity.BotMark, entity.BotMark.Opponent())
	if err != nil {
		return fmt.Errorf("bot failed to choose move: %w", err)
	}

	round, err := tictactoe.ApplyMove(session.Round, cell, entity.BotMark)
	if err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	session.Round = round

	return nil
}

func (that *GameManager) waitBot(ctx context.Context) error {
	if that.botDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(that.botDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("bot turn canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (that *GameManager) updateSession(ctx context.Context, session *entity.Session) error {
	session.UpdatedAt = that.now()

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (that *GameManager) lock(id string) func() {
	that.locksMutex.Lock()
	entry, ok := that.locks[id]
	if !ok {
		entry = &sessionLock{}
		that.locks[id] = entry
	}
	entry.refs++
	that.locksMutex.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.locksMutex.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, id)
		}
		that.locksMutex.Unlock()
	}
}
