package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AALVAREZG/contraidos-processor/internal/config"
	"github.com/AALVAREZG/contraidos-processor/internal/infrastructure"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/events"
)

func startHub(t *testing.T, origins []string) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	hub := NewHub(config.Default().WebSocket, origins, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return hub, server, cancel
}

func dial(t *testing.T, server *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubConnectAndPublish(t *testing.T) {
	hub, server, _ := startHub(t, nil)
	conn := dial(t, server, nil)

	hello := readEvent(t, conn)
	assert.Equal(t, string(events.EventConnection), hello["type"])

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	ctx := infrastructure.WithTraceID(context.Background(), "trace-1")
	hub.Publish(ctx, events.NewEvent(events.EventAnalysisCompleted, events.AnalysisEventData{
		AnalysisID:   "a1",
		UploadID:     "u1",
		AnalysisType: "contraidos",
		TotalIssues:  2,
	}))

	msg := readEvent(t, conn)
	assert.Equal(t, "analysis:completed", msg["type"])
	assert.Equal(t, "trace-1", msg["trace_id"])
	data, ok := msg["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a1", data["analysis_id"])
	assert.Equal(t, float64(2), data["total_issues"])
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub, server, _ := startHub(t, nil)
	conn := dial(t, server, nil)
	readEvent(t, conn)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubRejectsUnknownOrigin(t *testing.T) {
	_, server, _ := startHub(t, []string{"http://localhost:5173"})
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.test"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn := dial(t, server, http.Header{"Origin": []string{"http://localhost:5173"}})
	assert.Equal(t, string(events.EventConnection), readEvent(t, conn)["type"])
}

func TestHubStopClosesClients(t *testing.T) {
	hub, server, cancel := startHub(t, nil)
	conn := dial(t, server, nil)
	readEvent(t, conn)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// publishing after stop must not block
	done := make(chan struct{})
	go func() {
		hub.Publish(context.Background(), events.NewEvent(events.EventExportCompleted, nil))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked after stop")
	}
}

func TestNewHubTimingDefaults(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{PingPeriod: time.Hour}, nil, nil)
	assert.Equal(t, pongWait, hub.timing.pongWait)
	assert.Less(t, hub.timing.pingPeriod, hub.timing.pongWait)
}
