package entity

import (
	"time"
)

type Mode string

const (
	// ModePvP is two humans taking turns on the same session.
	ModePvP Mode = "pvp"
	// ModeBot lets the heuristic opponent answer every move of X.
	ModeBot Mode = "bot"
)

// BotMark is the side played by the automated opponent in ModeBot.
const BotMark = PlayerO

func (that Mode) IsValid() bool {
	return that == ModePvP || that == ModeBot
}

type Session struct {
	ID        string     `json:"id"`
	Mode      Mode       `json:"mode"`
	Round     Round      `json:"round"`
	Score     ScoreBoard `json:"score"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Rounds counts finished rounds over the whole session lifetime; resets do not rewind it.
	Rounds int `json:"rounds"`
}

func NewSession(id string, mode Mode, now time.Time) *Session {
	return &Session{
		ID:        id,
		Mode:      mode,
		Round:     NewRound(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Session) IsWithBot() bool {
	return that.Mode == ModeBot
}

// IsBotTurn reports whether the automated opponent has to move next.
func (that *Session) IsBotTurn() bool {
	return that.IsWithBot() && that.Round.IsOngoing() && that.Round.Turn == BotMark
}

// ResetRound starts a fresh round and keeps the score board.
func (that *Session) ResetRound() {
	that.Round = NewRound()
}

// ResetSession starts a fresh round and zeroes the score board.
func (that *Session) ResetSession() {
	that.ResetRound()
	that.Score.Reset()
}

// RoundRecord is a finished round kept in the history of a session.
type RoundRecord struct {
	SessionID  string    `json:"session_id"`
	Number     int       `json:"number"`
	Mode       Mode      `json:"mode"`
	Outcome    Outcome   `json:"outcome"`
	Line       *Line     `json:"line,omitempty"`
	Board      Board     `json:"board"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}
