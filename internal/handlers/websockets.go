package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"production_advisor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000 // 60s in ms

	wsTypeReport = "report"
	wsTypeEmpty  = "empty"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Requests are token-authenticated before the upgrade.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConnect streams the latest analysis run. A report is pushed on connect and then
// whenever a newer run appears; polling interval via ?interval=5s or ?interval_ms=5000.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	top, ok := h.parseTop(c, h.cfg.DefaultTopN)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	// Prepare periodic writers: report checks and pings.
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Send initial report immediately.
	var cur wsCursor
	if err := h.sendLatest(c.Request.Context(), conn, &cur, top); err != nil {
		// If initial send fails, log and close the connection.
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	// Writer/select loop.
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendLatest(c.Request.Context(), conn, &cur, top); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// wsCursor remembers what the client was last sent so an unchanged state is not repeated.
type wsCursor struct {
	runID   string
	empty   bool
	failing bool
}

// Helper: sendLatest writes the latest run when it differs from what the client last saw.
// "No run yet" and lookup failures are reported in-band once per transition and keep the
// connection open; only write errors are returned.
func (h *Handler) sendLatest(ctx context.Context, conn *websocket.Conn, cur *wsCursor, top int) error {
	run, err := h.services.Analysis.Latest(ctx)
	var msg wsEnvelope
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		wasFailing := cur.failing
		cur.failing = false
		if cur.runID != "" || (cur.empty && !wasFailing) {
			return nil
		}
		cur.empty = true
		msg = wsEnvelope{Type: wsTypeEmpty}
	case err != nil:
		if cur.failing {
			return nil
		}
		if h.log != nil {
			h.log.Errorw("ws_latest_failed", "err", err)
		}
		cur.failing = true
		msg = wsEnvelope{Type: wsTypeReport, Error: "failed to load latest run"}
	case run.RunID == cur.runID && !cur.failing:
		return nil
	default:
		cur.runID, cur.empty, cur.failing = run.RunID, false, false
		msg = wsEnvelope{Type: wsTypeReport, Data: service.TopN(run, top)}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
