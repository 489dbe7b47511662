package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"simple_cross/internal/engine"
	"simple_cross/internal/infra"
)

func TestReadLines(t *testing.T) {
	in := "O 1 IBM B 10 100\r\n\n   \nX 1\nP"
	var got []string

	err := ReadLines(context.Background(), strings.NewReader(in), func(line string) {
		got = append(got, line)
	})
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}
	want := []string{"O 1 IBM B 10 100", "X 1", "P"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadLines_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := ReadLines(ctx, strings.NewReader("P\nP\nP\n"), func(string) {
		calls++
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		retry int
		want  time.Duration
	}{
		{-1, time.Second},
		{0, time.Second},
		{1, 2 * time.Second},
		{5, 32 * time.Second},
		{6, time.Minute},
		{100, time.Minute},
	}
	for _, tt := range tests {
		if got := CalculateBackoff(tt.retry); got != tt.want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", tt.retry, got, tt.want)
		}
	}
}

// commandServer upgrades one client, sends it lines and collects one reply per line.
func commandServer(t *testing.T, lines []string, replies chan<- string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for _, line := range lines {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				t.Errorf("write failed: %v", err)
				return
			}
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			replies <- string(msg)
		}
		// hold the connection until the client leaves
		conn.ReadMessage()
	}))
}

func TestWSWorker_RoundTrip(t *testing.T) {
	replies := make(chan string, 8)
	srv := commandServer(t, []string{
		"O 1 IBM B 10 100",
		"O 2 IBM S 4 99",
		"X 9",
		"P",
	}, replies)
	defer srv.Close()

	metrics := infra.NewMetrics()
	seq := engine.NewSequencer(16, engine.NewEngine(engine.PrintGlobal), nil, metrics)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go seq.Run(ctx)

	w := NewWSWorker("ws"+strings.TrimPrefix(srv.URL, "http"), seq.Inbox(), metrics, nil)
	if err := w.Connect(ctx); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer w.Disconnect()

	want := []string{
		"",
		"F 2 IBM 4 100.00000\nF 1 IBM 4 100.00000",
		"E 9 Order id not found",
		"P 1 IBM B 6 100.00000",
	}
	for i, exp := range want {
		select {
		case got := <-replies:
			if got != exp {
				t.Errorf("reply %d = %q, want %q", i, got, exp)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for reply %d", i)
		}
	}

	if !w.IsConnected() {
		t.Error("worker should report connected")
	}
	if n := metrics.Snapshot().ActiveConnections; n != 1 {
		t.Errorf("ActiveConnections = %d, want 1", n)
	}
}

func TestWSWorker_DisconnectWithoutServer(t *testing.T) {
	w := NewWSWorker("ws://127.0.0.1:1/none", nil, nil, nil)
	if err := w.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Disconnect()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Disconnect hung while backing off")
	}
	if w.IsConnected() {
		t.Error("worker should not be connected")
	}
}
