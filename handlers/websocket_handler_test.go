package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/tournament-bracket/brackets"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHandler_ReceivesTournamentUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := brackets.NewHub(discardLogger())
	go hub.Run(ctx)

	r := chi.NewRouter()
	r.Get("/ws/tournaments/{tournamentID}", NewWebSocketHandler(hub, nil, discardLogger()).ServeWs)
	server := httptest.NewServer(r)
	defer server.Close()

	tournamentID := uuid.New()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/tournaments/" + tournamentID.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	room := brackets.RoomForTournament(tournamentID)
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(tournamentID, brackets.MessageMatchUpdated, map[string]string{"match_id": "R1M1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg brackets.WebSocketMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, brackets.MessageMatchUpdated, msg.Type)
	assert.Equal(t, room, msg.RoomID)
}

func TestWebSocketHandler_RejectsForeignOrigin(t *testing.T) {
	hub := brackets.NewHub(discardLogger())

	r := chi.NewRouter()
	r.Get("/ws/tournaments/{tournamentID}", NewWebSocketHandler(hub, []string{"https://admin.example.com"}, discardLogger()).ServeWs)
	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/tournaments/" + uuid.NewString()
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
