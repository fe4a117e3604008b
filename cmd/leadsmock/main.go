// Command leadsmock is a minimal mock of the Supabase leads endpoints for
// launcher development.
//
// It serves a canned leads table on the REST path and accepts Realtime
// websocket subscriptions; pressing Enter on stdin broadcasts an UPDATE
// event so the watcher's refresh path can be exercised locally.
//
// Usage:
//
//	go run ./cmd/leadsmock                 # starts on :9921
//	LEADSMOCK_ADDR=:9090 go run ./cmd/leadsmock
//
// Then point the launcher at it:
//
//	SUPABASE_URL=http://localhost:9921 SUPABASE_KEY=devkey \
//	  NANOBOT_LEADS_WATCH=true ./nanobot-launcher seed
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

var sampleLeads = []map[string]any{
	{
		"lead_name":     "Asha Rao",
		"mobile_number": "9820012345",
		"project":       "Sunrise Heights",
		"status":        "site visit booked",
		"priority":      "high",
		"created_at":    time.Now().UTC().Format(time.RFC3339),
		"updated_at":    time.Now().UTC().Format(time.RFC3339),
	},
	{
		"lead_name":     "Vikram Shah",
		"mobile_number": "9874563210",
		"project":       "Lakeside Residency Phase Two",
		"status":        "negotiation in progress",
		"priority":      "medium",
		"created_at":    time.Now().UTC().AddDate(0, 0, -12).Format(time.RFC3339),
		"updated_at":    time.Now().UTC().AddDate(0, 0, -9).Format(time.RFC3339),
	},
	{
		"lead_name":     "Meera Iyer",
		"mobile_number": "9811122233",
		"project":       "Green Acres",
		"status":        "new",
		"priority":      "low",
		"created_at":    time.Now().UTC().AddDate(0, 0, -1).Format(time.RFC3339),
		"updated_at":    "not-a-timestamp", // exercises the raw fallback
	},
}

func main() {
	addr := os.Getenv("LEADSMOCK_ADDR")
	if addr == "" {
		addr = ":9921"
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	srv := &mockStore{log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/", srv.handleRest)
	mux.HandleFunc("/realtime/v1/websocket", srv.handleRealtime)

	log.Info("mock leads store listening", "addr", addr)
	log.Info("point the launcher at SUPABASE_URL=http://localhost" + addr)

	go srv.stdinBroadcaster()

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}

type mockStore struct {
	log   *slog.Logger
	mu    sync.Mutex
	conns []*websocket.Conn
}

func (m *mockStore) handleRest(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("apikey") == "" {
		http.Error(w, `{"message":"No API key found in request"}`, http.StatusUnauthorized)
		return
	}
	m.log.Debug("rest query", "path", r.URL.Path, "select", r.URL.Query().Get("select"))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sampleLeads)
}

func (m *mockStore) handleRealtime(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		m.log.Error("accept failed", "err", err)
		return
	}

	m.mu.Lock()
	m.conns = append(m.conns, conn)
	m.mu.Unlock()
	m.log.Info("realtime client connected")

	ctx := r.Context()
	for {
		var msg map[string]any
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			m.log.Info("realtime client gone", "err", err)
			return
		}
		// Acknowledge joins and heartbeats so the client stays happy.
		reply := map[string]any{
			"topic":   msg["topic"],
			"event":   "phx_reply",
			"payload": map[string]any{"status": "ok"},
			"ref":     msg["ref"],
		}
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			return
		}
	}
}

// stdinBroadcaster sends a fake UPDATE to all realtime clients each time
// Enter is pressed.
func (m *mockStore) stdinBroadcaster() {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		event := map[string]any{
			"topic":   "realtime:public:leads",
			"event":   "UPDATE",
			"payload": map[string]any{"record": sampleLeads[0]},
			"ref":     nil,
		}
		m.mu.Lock()
		conns := append([]*websocket.Conn(nil), m.conns...)
		m.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		n := 0
		for _, c := range conns {
			if err := wsjson.Write(ctx, c, event); err == nil {
				n++
			}
		}
		cancel()
		fmt.Fprintf(os.Stderr, "broadcast UPDATE to %d client(s)\n", n)
	}
}
