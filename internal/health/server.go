// Package health hosts the platform health endpoint and a system metrics
// heartbeat. The endpoint's contract is deliberately dumb: every request,
// whatever its method or path, gets the same 200 response, because the
// hosting platform only probes for liveness.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Body is the exact payload the platform health check expects.
const Body = `{"status": "ok", "service": "nanobot"}`

// Server is the always-OK health listener.
type Server struct {
	port int
	log  *slog.Logger
}

// NewServer creates a Server listening on port.
func NewServer(port int, log *slog.Logger) *Server {
	return &Server{port: port, log: log}
}

// Handler returns the health handler. Split out for tests.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Request logging suppressed: the platform probes every few
		// seconds and info-level spam helps nobody.
		s.log.Debug("health probe", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, Body)
	})
}

// Run serves until ctx is cancelled. It blocks. There is no graceful
// drain: the process dies with the container and that is the whole
// shutdown story.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("health listen :%d: %w", s.port, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	s.log.Info("health endpoint up", "port", s.port)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
