package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arena/internal/service"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-arena/testing/suite"
)

func dial(t *testing.T) *websocket.Conn {
	t.Helper()

	_, sqliteStorage := suite.NewSQLite(t)
	logger := suite.NewLogger()

	manager := usecase.NewGameManager(
		logger,
		repository.NewMemorySessionRepository(),
		repository.NewHistoryRepository(sqliteStorage.Connection),
		service.NewSeededBotService(1),
		0,
	)

	server := httptest.NewServer(New(logger, manager))
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, action string, req Payload) Payload {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: body}))

	var resp Message
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, action, resp.Action)

	var payload Payload
	require.NoError(t, json.Unmarshal(resp.Payload, &payload))

	return payload
}

func cell(i int) *int {
	return &i
}

func TestServer_BotSession(t *testing.T) {
	conn := dial(t)

	// Given: a new bot session
	resp := roundTrip(t, conn, ActionSessionNew, Payload{Mode: entity.ModeBot})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Session)
	sessionID := resp.Session.ID

	// When: X plays a corner
	resp = roundTrip(t, conn, ActionGameTurn, Payload{SessionID: sessionID, Cell: cell(0)})

	// Then: the reply already contains the bot move
	require.Empty(t, resp.Error)
	assert.Equal(t, entity.PlayerO, resp.Session.Round.Board[4])
	assert.Equal(t, entity.PlayerX, resp.Session.Round.Turn)

	// When: X plays an occupied cell
	resp = roundTrip(t, conn, ActionGameTurn, Payload{SessionID: sessionID, Cell: cell(4)})

	// Then: an error comes back with the unchanged session
	assert.Contains(t, resp.Error, "cell is already occupied")
	require.NotNil(t, resp.Session)
	assert.Equal(t, 2, resp.Session.Round.Moves)

	// When: the round is reset
	resp = roundTrip(t, conn, ActionRoundReset, Payload{SessionID: sessionID})

	// Then: the board is empty again
	require.Empty(t, resp.Error)
	assert.Equal(t, entity.NewRound(), resp.Session.Round)

	// When: the mode changes and the session is fetched
	resp = roundTrip(t, conn, ActionSessionMode, Payload{SessionID: sessionID, Mode: entity.ModePvP})
	require.Empty(t, resp.Error)

	resp = roundTrip(t, conn, ActionSessionGet, Payload{SessionID: sessionID})
	require.Empty(t, resp.Error)
	assert.Equal(t, entity.ModePvP, resp.Session.Mode)

	resp = roundTrip(t, conn, ActionSessionReset, Payload{SessionID: sessionID})
	require.Empty(t, resp.Error)
	assert.Equal(t, entity.ScoreBoard{}, resp.Session.Score)
}

func TestServer_BadRequests(t *testing.T) {
	conn := dial(t)

	resp := roundTrip(t, conn, "game:unknown", Payload{})
	assert.Equal(t, "unknown action", resp.Error)

	resp = roundTrip(t, conn, ActionGameTurn, Payload{Cell: cell(0)})
	assert.Equal(t, errSessionIDRequired.Error(), resp.Error)

	resp = roundTrip(t, conn, ActionGameTurn, Payload{SessionID: "missing"})
	assert.Equal(t, errCellRequired.Error(), resp.Error)

	resp = roundTrip(t, conn, ActionSessionGet, Payload{SessionID: "missing"})
	assert.Contains(t, resp.Error, "session not found")

	resp = roundTrip(t, conn, ActionSessionNew, Payload{Mode: "online"})
	assert.Contains(t, resp.Error, "unknown game mode")

	// When: a frame is not JSON at all
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ActionError, msg.Action)
}
