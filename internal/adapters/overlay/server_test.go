package overlay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testSnapshot() domain.OverlaySnapshot {
	return domain.OverlaySnapshot{
		TS: 1_700_000_000_000,
		Resources: []domain.ResourceStatus{
			{Kind: domain.KindTP, Label: "TP", Value: 87, Cap: 100, RateMs: 600_000, Wasted: domain.WastedInfo{Ms: 120_000, Points: 0.2}},
			{Kind: domain.KindRP, Label: "RP", Value: 3, Cap: 5, RateMs: 7_200_000},
		},
	}
}

func startTestServer(t *testing.T) (*Server, *Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	metrics := NewMetrics()
	hub := NewHub(quietLogger(), metrics)
	srv := NewServer("127.0.0.1:0", hub, metrics, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(cancel)

	return srv, hub, ts, cancel
}

func TestHealthz(t *testing.T) {
	_, _, ts, _ := startTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSnapshotEndpointBeforeFirstPublish(t *testing.T) {
	_, _, ts, _ := startTestServer(t)

	resp, err := http.Get(ts.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSnapshotEndpointServesLatest(t *testing.T) {
	_, hub, ts, _ := startTestServer(t)

	hub.Publish(testSnapshot())

	resp, err := http.Get(ts.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap domain.OverlaySnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Len(t, snap.Resources, 2)
	assert.Equal(t, 87, snap.Resources[0].Value)
}

func TestWebSocketReceivesBroadcast(t *testing.T) {
	_, hub, ts, _ := startTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration races the dial returning; republish until the frame
	// lands, the way the 1s poll loop would.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				hub.Publish(testSnapshot())
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var snap domain.OverlaySnapshot
	require.NoError(t, json.Unmarshal(payload, &snap))
	assert.Equal(t, domain.KindTP, snap.Resources[0].Kind)
}

func TestClientDropAfterHubShutdownDoesNotBlock(t *testing.T) {
	t.Parallel()

	hub := NewHub(quietLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := newClient(hub, nil, quietLogger())
	hub.register <- client

	cancel()
	<-stopped

	dropped := make(chan struct{})
	go func() {
		client.drop()
		close(dropped)
	}()

	select {
	case <-dropped:
	case <-time.After(time.Second):
		t.Fatal("drop blocked after hub shutdown")
	}
}

func TestMetricsEndpointExposesGauges(t *testing.T) {
	srv, _, ts, _ := startTestServer(t)

	srv.metrics.Publish(testSnapshot())

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `umatrack_resource_value{kind="tp"} 87`)
	assert.Contains(t, string(body), `umatrack_wasted_at_cap_ms{kind="tp"} 120000`)
	assert.Contains(t, string(body), "umatrack_snapshots_published_total 1")
}
