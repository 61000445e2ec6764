package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// tradeServer accepts a connection, drains subscribe messages, and emits one
// trade frame per connection.
func tradeServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var sub map[string]string
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		frame := `{"type":"trade","data":[{"s":"URTH","p":123.4,"t":1700000000000}]}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return
		}
		// keep the connection open until the client hangs up
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient_ConnectSubscribeRead(t *testing.T) {
	srv := tradeServer(t)
	c := New("token", wsURL(srv), []string{"URTH"}, time.Millisecond, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()
	if !c.IsConnected() {
		t.Fatal("expected connected state")
	}
	if err := c.Subscribe(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	ticks, errs := c.Read(ctx)
	select {
	case tick := <-ticks:
		if tick.Close != 123.4 {
			t.Fatalf("tick close = %v, want 123.4", tick.Close)
		}
		if got := tick.Date.Unix(); got != 1700000000 {
			t.Fatalf("tick time = %v, want 1700000000", got)
		}
	case err := <-errs:
		t.Fatalf("read error: %v", err)
	case <-ctx.Done():
		t.Fatal("timed out waiting for tick")
	}
}

func TestClient_ReconnectDoesNotLeakPingLoops(t *testing.T) {
	srv := tradeServer(t)
	// short ping interval so leaked loops would stay hot
	c := New("token", wsURL(srv), []string{"URTH"}, time.Millisecond, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := c.Subscribe(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	before := runtime.NumGoroutine()
	for i := 0; i < 5; i++ {
		if err := c.Reconnect(ctx); err != nil {
			t.Fatalf("reconnect %d: %v", i, err)
		}
		// reads after a reconnect must not spawn extra per-call writers
		_, _ = c.Read(ctx)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before+2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("goroutines grew from %d to %d after reconnect cycles", before, runtime.NumGoroutine())
}

func TestClient_SubscribeRequiresConnection(t *testing.T) {
	c := New("token", "ws://127.0.0.1:0", []string{"URTH"}, time.Millisecond, time.Minute)
	if err := c.Subscribe(context.Background()); err == nil {
		t.Fatal("expected error before connect")
	}
}
