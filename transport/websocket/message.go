package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	ActionSessionNew   = "session:new"
	ActionSessionGet   = "session:get"
	ActionGameTurn     = "game:turn"
	ActionRoundReset   = "round:reset"
	ActionSessionReset = "session:reset"
	ActionSessionMode  = "session:mode"

	ActionError = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses.
type Payload struct {
	SessionID string          `json:"session_id,omitempty"`
	Mode      entity.Mode     `json:"mode,omitempty"`
	Cell      *int            `json:"cell,omitempty"`
	Session   *entity.Session `json:"session,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response := Message{
		Action:  action,
		Payload: payloadBytes,
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err = conn.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendError(conn *websocket.Conn, action, message string) error {
	return that.sendMessage(conn, action, Payload{Error: message})
}
