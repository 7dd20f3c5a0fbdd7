package observer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"turnserver/internal/domain/turn"
)

type fakeRecent struct {
	items []json.RawMessage
	err   error
	asked int
}

func (f *fakeRecent) Recent(_ context.Context, n int) ([]json.RawMessage, error) {
	f.asked = n
	return f.items, f.err
}

func newObserverServer(t *testing.T, recent RecentTurns) (*httptest.Server, *Hub) {
	t.Helper()
	log := zap.NewNop().Sugar()
	hub := NewHub(log)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	r := chi.NewRouter()
	NewObserverHandler(log, hub, recent).Router(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestHandleRecent(t *testing.T) {
	recent := &fakeRecent{items: []json.RawMessage{
		json.RawMessage(`{"id":"b"}`),
		json.RawMessage(`{"id":"a"}`),
	}}
	srv, _ := newObserverServer(t, recent)

	status, body := get(t, srv.URL+"/recent?limit=2")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":"b"},{"id":"a"}]`, body)
	assert.Equal(t, 2, recent.asked)

	status, _ = get(t, srv.URL+"/recent?limit=abc")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleRecent_Errors(t *testing.T) {
	srv, _ := newObserverServer(t, nil)
	status, body := get(t, srv.URL+"/recent")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "turn history is disabled", body)

	srv, _ = newObserverServer(t, &fakeRecent{err: errors.New("redis down")})
	status, _ = get(t, srv.URL+"/recent")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestHub_BroadcastsTurns(t *testing.T) {
	srv, hub := newObserverServer(t, nil)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	resp := turn.NewActionResponse(turn.NewAction("attack1", turn.Position{X: 5, Y: 0}))
	rec := turn.Record{ID: "turn-42", ReceivedAt: time.Now(), Response: &resp}

	// Registration completes asynchronously after the handshake, so keep
	// publishing until the spectator sees a turn.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = hub.RecordTurn(context.Background(), rec)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got turn.Summary
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "turn-42", got.ID)
	require.NotNil(t, got.Response)
	assert.Equal(t, resp.UnitActions, got.Response.UnitActions)
}

func TestHub_RecordTurnAfterShutdown(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	for i := 0; i < broadcastQueue+10; i++ {
		assert.NoError(t, hub.RecordTurn(context.Background(), turn.Record{ID: "late"}))
	}
}
