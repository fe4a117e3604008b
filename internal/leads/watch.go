package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	minBackoff        = 1 * time.Second
	maxBackoff        = 5 * time.Minute
	backoffMul        = 2.0
	heartbeatInterval = 30 * time.Second

	// refreshDebounce coalesces change bursts into one refresh.
	refreshDebounce = 30 * time.Second
)

// Watcher keeps a Supabase Realtime subscription open on the leads table
// and invokes onChange (debounced) whenever a row is inserted, updated, or
// deleted. It reconnects forever with exponential backoff and only stops
// when the context is cancelled.
type Watcher struct {
	baseURL  string
	apiKey   string
	table    string
	onChange func(ctx context.Context)
	log      *slog.Logger
}

// NewWatcher creates a Watcher. Call Run to start it.
func NewWatcher(baseURL, apiKey, table string, onChange func(ctx context.Context), log *slog.Logger) *Watcher {
	return &Watcher{
		baseURL:  baseURL,
		apiKey:   apiKey,
		table:    table,
		onChange: onChange,
		log:      log,
	}
}

// Run connects and reconnects until ctx is cancelled. It blocks.
func (w *Watcher) Run(ctx context.Context) {
	refresh := make(chan struct{}, 1)
	go w.debounceRefresh(ctx, refresh)

	backoff := minBackoff
	for {
		err := w.connect(ctx, refresh)
		if ctx.Err() != nil {
			return
		}
		w.log.Warn("realtime disconnected", "err", err, "retry_in", backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(time.Duration(float64(backoff)*backoffMul), maxBackoff)
	}
}

// realtimeURL converts the project's https base URL into the websocket
// endpoint of its Realtime service.
func (w *Watcher) realtimeURL() string {
	ws := strings.Replace(w.baseURL, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	return fmt.Sprintf("%s/realtime/v1/websocket?apikey=%s&vsn=1.0.0", ws, url.QueryEscape(w.apiKey))
}

// phxMessage is a Phoenix channel frame, which is what Supabase Realtime
// speaks on the wire.
type phxMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// connect dials, joins the table topic, and reads events until error.
func (w *Watcher) connect(ctx context.Context, refresh chan<- struct{}) error {
	conn, _, err := websocket.Dial(ctx, w.realtimeURL(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.CloseNow()

	topic := "realtime:public:" + w.table
	join := phxMessage{
		Topic:   topic,
		Event:   "phx_join",
		Payload: json.RawMessage(`{}`),
		Ref:     "1",
	}
	if err := wsjson.Write(ctx, conn, join); err != nil {
		return fmt.Errorf("join %s: %w", topic, err)
	}
	w.log.Info("realtime subscribed", "topic", topic)

	hbCtx, cancelHB := context.WithCancel(ctx)
	defer cancelHB()
	go w.heartbeat(hbCtx, conn)

	for {
		var msg phxMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}
		switch msg.Event {
		case "INSERT", "UPDATE", "DELETE":
			w.log.Debug("leads change", "event", msg.Event)
			select {
			case refresh <- struct{}{}:
			default: // refresh already pending
			}
		case "phx_error", "phx_close":
			return fmt.Errorf("channel %s: %s", msg.Topic, msg.Event)
		}
	}
}

// heartbeat keeps the Phoenix connection alive; the server drops silent
// clients after about a minute.
func (w *Watcher) heartbeat(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	ref := 2
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hb := phxMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage(`{}`),
				Ref:     fmt.Sprintf("%d", ref),
			}
			ref++
			if err := wsjson.Write(ctx, conn, hb); err != nil {
				return
			}
		}
	}
}

// debounceRefresh turns a stream of change signals into at most one
// onChange call per refreshDebounce window.
func (w *Watcher) debounceRefresh(ctx context.Context, refresh <-chan struct{}) {
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-refresh:
			if wait := refreshDebounce - time.Since(last); wait > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(wait):
				}
			}
			last = time.Now()
			w.onChange(ctx)
		}
	}
}
