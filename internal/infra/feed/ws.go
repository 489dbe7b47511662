package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"simple_cross/internal/event"
	"simple_cross/internal/infra"
)

const (
	wsPingInterval = 30 * time.Second
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second

	// SourceWS tags commands that arrived over the websocket feed.
	SourceWS = "ws"
)

// WSWorker dials a command source and forwards each text frame to the
// sequencer inbox as one command line. The result lines of every command
// are written back as a single newline-joined text frame, in command order.
type WSWorker struct {
	url     string
	inbox   chan<- *event.CommandEvent
	metrics *infra.Metrics // optional
	logger  *slog.Logger

	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWSWorker creates a worker for url. metrics may be nil.
func NewWSWorker(url string, inbox chan<- *event.CommandEvent, metrics *infra.Metrics, logger *slog.Logger) *WSWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSWorker{
		url:     url,
		inbox:   inbox,
		metrics: metrics,
		logger:  logger.With(slog.String("feed", SourceWS)),
	}
}

// Connect starts the WebSocket connection with automatic reconnection
func (w *WSWorker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.connectionLoop(ctx)

	return nil
}

// connectionLoop handles connection and reconnection with exponential backoff
func (w *WSWorker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()

	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Feed connection loop stopped")
			return
		default:
		}

		conn, err := w.connect(ctx)
		if err != nil {
			w.logger.Warn("Feed connection failed",
				slog.Any("error", err),
				slog.Int("retry", retryCount),
			)

			delay := CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				w.logger.Error("Feed max retries exceeded, resetting counter")
				retryCount = 0
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		// Connection successful, reset retry counter
		retryCount = 0

		pingDone := make(chan struct{})
		go w.pingLoop(conn, pingDone)
		w.readLoop(ctx, conn)
		close(pingDone)
	}
}

// connect establishes the WebSocket connection
func (w *WSWorker) connect(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()

	if w.metrics != nil {
		w.metrics.IncrementConnections()
	}
	w.logger.Info("Feed WebSocket connected", slog.String("url", w.url))

	return conn, nil
}

// readLoop reads command frames until the connection fails or ctx is done
func (w *WSWorker) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer w.closeConnection(conn)

	// unblock ReadMessage on shutdown
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.logger.Warn("Feed WebSocket read error", slog.Any("error", err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if !w.handleMessage(ctx, conn, string(message)) {
			return
		}
	}
}

// handleMessage queues one command. It blocks while the inbox is full
// and reports false if ctx ended first.
func (w *WSWorker) handleMessage(ctx context.Context, conn *websocket.Conn, line string) bool {
	ev := event.AcquireCommandEvent()
	ev.Line = strings.TrimRight(line, "\r\n")
	ev.Source = SourceWS
	ev.Reply = func(lines []string) {
		if err := w.threadSafeWrite(conn, []byte(strings.Join(lines, "\n"))); err != nil {
			w.logger.Debug("Feed reply dropped", slog.Any("error", err))
		}
	}

	select {
	case w.inbox <- ev:
		return true
	case <-ctx.Done():
		event.ReleaseCommandEvent(ev)
		return false
	}
}

// threadSafeWrite sends a text frame on conn in a thread-safe manner
func (w *WSWorker) threadSafeWrite(conn *websocket.Conn, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (w *WSWorker) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			w.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
			w.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// closeConnection safely closes conn if it is still the current connection
func (w *WSWorker) closeConnection(conn *websocket.Conn) {
	conn.Close()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == conn {
		w.conn = nil
		w.connected = false
		if w.metrics != nil {
			w.metrics.DecrementConnections()
		}
	}
}

// Disconnect stops the worker and waits for it to exit
func (w *WSWorker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.logger.Info("Feed WebSocket disconnected")
}

// IsConnected returns connection status
func (w *WSWorker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}
