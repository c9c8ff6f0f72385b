package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "upscdash/internal/errors"
	"upscdash/internal/shared/testutil"
	"upscdash/internal/websocket"
	"upscdash/pkg/contracts/domain"
)

type stubRenderer struct{}

func (stubRenderer) View(ctx context.Context, source string, req domain.ConstraintsRequest) (*domain.ViewModel, error) {
	return &domain.ViewModel{TotalRows: 5, FilteredRows: 5}, nil
}

func startWebSocketServer(t *testing.T, allowed []string) (*httptest.Server, *websocket.Hub) {
	t.Helper()
	logger := testutil.DiscardLogger()
	hub := websocket.NewHub(stubRenderer{}, nil, nil, websocket.Options{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Run(ctx)
		close(done)
	}()

	h := NewWebSocketHandler(hub, WebSocketConfig{
		AllowedOrigins:  allowed,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}, logger, apierrors.NewErrorHandler(logger, false))
	srv := httptest.NewServer(h)

	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return srv, hub
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketHandler_Connects(t *testing.T) {
	srv, hub := startWebSocketServer(t, []string{"http://dashboard.example"})

	header := http.Header{"Origin": []string{"http://dashboard.example"}}
	conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv), header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var types []string
	for len(types) < 2 {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg websocket.Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		types = append(types, msg.Type)
	}
	assert.Equal(t, []string{websocket.TypeConnection, websocket.TypeView}, types)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestWebSocketHandler_RejectsForeignOrigin(t *testing.T) {
	srv, hub := startWebSocketServer(t, []string{"http://dashboard.example"})

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"no origin", "", nil, true},
		{"same host", "http://example.com", nil, true},
		{"listed", "http://localhost:3000", []string{"http://localhost:3000"}, true},
		{"wildcard", "http://anything.test", []string{"*"}, true},
		{"unlisted", "http://other.test", []string{"http://localhost:3000"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://example.com/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originAllowed(r, tt.allowed))
		})
	}
}
