package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/bryanchriswhite/FocusTabs/internal/logger"
	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

// Controller is the part of a session the control socket drives.
type Controller interface {
	Snapshot() tabs.Snapshot
	Subscribe() chan tabs.Snapshot
	Unsubscribe(ch chan tabs.Snapshot)

	Select(ctx context.Context, t Target) error
	Close(ctx context.Context, t Target) error
	Spawn(ctx context.Context, args []string) error
}

// Target names a tab by window or by index. Window wins when both are set.
type Target struct {
	Window *tabs.Window `json:"window,omitempty"`
	Index  *int         `json:"index,omitempty"`
}

// SpawnRequest is the body of POST /api/spawn.
type SpawnRequest struct {
	Args []string `json:"args"`
}

// Server represents the control API server
type Server struct {
	router   *mux.Router
	ctl      Controller
	version  string
	upgrader websocket.Upgrader
	log      *zerolog.Logger

	httpServer *http.Server
	socketPath string
}

// NewServer creates a new control server for ctl.
func NewServer(ctl Controller, version string) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		ctl:     ctl,
		version: version,
		upgrader: websocket.Upgrader{
			// Only local processes reach the socket.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: logger.WithComponent("api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Tabs
	api.HandleFunc("/tabs", s.handleGetTabs).Methods("GET")
	api.HandleFunc("/tabs/select", s.handleSelect).Methods("POST")
	api.HandleFunc("/tabs/close", s.handleClose).Methods("POST")
	api.HandleFunc("/tabs/stream", s.handleTabStream)

	// Clients
	api.HandleFunc("/spawn", s.handleSpawn).Methods("POST")

	// Health check
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// A known path with the wrong method is 405 rather than 404.
	methodNotAllowed := http.HandlerFunc(s.handleMethodNotAllowed)
	api.MethodNotAllowedHandler = methodNotAllowed
	s.router.MethodNotAllowedHandler = methodNotAllowed

	s.router.Use(s.logRequests)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// DefaultSocketPath is the socket for the container with id container:
// $XDG_RUNTIME_DIR/focustabs-<id>.sock, or the temp dir when the runtime
// dir is unset.
func DefaultSocketPath(container tabs.Window) string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("focustabs-%d.sock", container))
}

// Start listens on the unix socket at path and serves in the background.
// A stale socket left at path is replaced.
func (s *Server) Start(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		ln.Close()
		return fmt.Errorf("failed to restrict socket: %w", err)
	}

	s.socketPath = path
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.log.Info().Str("socket", path).Msg("Starting control server")
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Control server stopped")
		}
	}()
	return nil
}

// Close stops the server and removes its socket.
func (s *Server) Close(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	err := s.httpServer.Shutdown(ctx)
	if rmErr := os.Remove(s.socketPath); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	s.log.Debug().Str("socket", s.socketPath).Msg("Control server closed")
	return err
}

// logRequests logs every request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Control request")
		next.ServeHTTP(w, r)
	})
}

// HTTP Handlers

func (s *Server) handleGetTabs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.ctl.Snapshot())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var t Target
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.ctl.Select(r.Context(), t); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, s.ctl.Snapshot())
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	var t Target
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.ctl.Close(r.Context(), t); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "success"})
}

func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	var req SpawnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.ctl.Spawn(r.Context(), req.Args); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "success"})
}

func (s *Server) handleTabStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}
	defer conn.Close()

	// Subscribe before reading the snapshot so no change is missed.
	updates := s.ctl.Subscribe()
	defer s.ctl.Unsubscribe(updates)

	if err := conn.WriteJSON(s.ctl.Snapshot()); err != nil {
		s.log.Debug().Err(err).Msg("WebSocket write error")
		return
	}

	// The peer never sends; reading notices when it goes away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session stopped"))
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				s.log.Debug().Err(err).Msg("WebSocket write error")
				return
			}
		case <-gone:
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "healthy",
		"version": s.version,
	})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, fmt.Sprintf("method %s not allowed", r.Method), http.StatusMethodNotAllowed)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoSuchTab):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNoTarget):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, tabs.ErrStopped):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		s.log.Error().Err(err).Msg("Control request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
