package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brewline/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	wsSrv := httptest.NewServer(http.HandlerFunc(hub.HandleFeed))
	t.Cleanup(wsSrv.Close)

	url := "ws" + strings.TrimPrefix(wsSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// The handshake completes before HandleFeed registers the connection;
	// wait so a publish cannot slip between the two.
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.conns) > 0
	}, time.Second, 5*time.Millisecond)

	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) Snapshot {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))
	return snapshot
}

func TestHub_DeliversSnapshotsToTerminals(t *testing.T) {
	broadcaster := NewBroadcaster()
	hub := NewHub(broadcaster, zap.NewNop())
	conn := dialHub(t, hub)

	broadcaster.Publish([]domain.Order{newOrder("o-1")})

	snapshot := readSnapshot(t, conn)
	require.Len(t, snapshot.Orders, 1)
	assert.Equal(t, "o-1", snapshot.Orders[0].ID)

	// Every further mutation redelivers the whole collection.
	broadcaster.Publish([]domain.Order{newOrder("o-1"), newOrder("o-2")})
	snapshot = readSnapshot(t, conn)
	assert.Len(t, snapshot.Orders, 2)
}

func TestHub_LateJoinerGetsCurrentSnapshot(t *testing.T) {
	broadcaster := NewBroadcaster()
	hub := NewHub(broadcaster, zap.NewNop())

	broadcaster.Publish([]domain.Order{newOrder("o-1")})

	conn := dialHub(t, hub)
	snapshot := readSnapshot(t, conn)

	require.Len(t, snapshot.Orders, 1)
	assert.Equal(t, "o-1", snapshot.Orders[0].ID)
}
