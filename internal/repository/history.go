package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const emptyCellSymbol = "-"

type HistoryRepository interface {
	Save(ctx context.Context, record *entity.RoundRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.RoundRecord, error)
}

type historyRepository struct {
	conn *sql.DB
}

// NewHistoryRepository expects the rounds table created by storage.Storage.Init.
func NewHistoryRepository(conn *sql.DB) HistoryRepository {
	return &historyRepository{
		conn: conn,
	}
}

func (that *historyRepository) Save(ctx context.Context, record *entity.RoundRecord) error {
	query := `INSERT INTO rounds (session_id, number, mode, outcome, line, board, moves, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		record.SessionID,
		record.Number,
		string(record.Mode),
		string(record.Outcome),
		encodeLine(record.Line),
		encodeBoard(record.Board),
		record.Moves,
		record.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("can't save round: %w", err)
	}

	return nil
}

func (that *historyRepository) ListBySession(ctx context.Context, sessionID string) ([]entity.RoundRecord, error) {
	query := `SELECT session_id, number, mode, outcome, line, board, moves, finished_at
		FROM rounds WHERE session_id = ? ORDER BY number`

	rows, err := that.conn.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("can't list rounds: %w", err)
	}
	defer rows.Close()

	records := make([]entity.RoundRecord, 0)
	for rows.Next() {
		var (
			record     entity.RoundRecord
			mode       string
			outcome    string
			line       sql.NullString
			board      string
			finishedAt int64
		)

		if err = rows.Scan(&record.SessionID, &record.Number, &mode, &outcome, &line, &board, &record.Moves, &finishedAt); err != nil {
			return nil, fmt.Errorf("can't scan round: %w", err)
		}

		record.Mode = entity.Mode(mode)
		record.Outcome = entity.Outcome(outcome)
		record.FinishedAt = time.UnixMilli(finishedAt).UTC()

		if record.Board, err = decodeBoard(board); err != nil {
			return nil, err
		}

		if line.Valid {
			if record.Line, err = decodeLine(line.String); err != nil {
				return nil, err
			}
		}

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't iterate rounds: %w", err)
	}

	return records, nil
}

// encodeBoard writes one symbol per cell, e.g. "XO-X-O--X".
func encodeBoard(board entity.Board) string {
	var sb strings.Builder
	for _, cell := range board {
		if cell == entity.EmptyCell {
			sb.WriteString(emptyCellSymbol)
			continue
		}
		sb.WriteString(string(cell))
	}

	return sb.String()
}

func decodeBoard(raw string) (entity.Board, error) {
	var board entity.Board
	if len(raw) != len(board) {
		return board, fmt.Errorf("malformed board %q", raw)
	}

	for i, symbol := range raw {
		switch mark := entity.Mark(symbol); mark {
		case entity.PlayerX, entity.PlayerO:
			board[i] = mark
		case emptyCellSymbol:
			board[i] = entity.EmptyCell
		default:
			return board, fmt.Errorf("malformed board %q", raw)
		}
	}

	return board, nil
}

func encodeLine(line *entity.Line) sql.NullString {
	if line == nil {
		return sql.NullString{}
	}

	return sql.NullString{
		String: fmt.Sprintf("%d,%d,%d", line[0], line[1], line[2]),
		Valid:  true,
	}
}

func decodeLine(raw string) (*entity.Line, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != len(entity.Line{}) {
		return nil, fmt.Errorf("malformed line %q", raw)
	}

	var line entity.Line
	for i, part := range parts {
		cell, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("malformed line %q: %w", raw, err)
		}
		line[i] = cell
	}

	return &line, nil
}
