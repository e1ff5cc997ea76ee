// Package web provides a read-only HTTP view of the accounts.
//
// The server exposes a JSON API over a storage.Store and pushes a reload
// event to connected clients whenever the ledger files change on disk.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robinvdvleuten/accounts/ledger"
	"github.com/robinvdvleuten/accounts/storage"
	"github.com/robinvdvleuten/accounts/telemetry"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long Start waits for open requests once its
// context is done.
const shutdownTimeout = 5 * time.Second

type Server struct {
	Port      int
	Host      string
	Version   string
	CommitSHA string

	store  storage.Store
	logger *zap.Logger

	// watchPaths are files and directories that trigger a reload event.
	watchPaths []string

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex

	// done is closed on shutdown so event streams end.
	done     chan struct{}
	doneOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

func WithVersion(version, commitSHA string) Option {
	return func(s *Server) {
		s.Version = version
		s.CommitSHA = commitSHA
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithWatch broadcasts a reload event when anything under paths changes.
func WithWatch(paths ...string) Option {
	return func(s *Server) { s.watchPaths = append(s.watchPaths, paths...) }
}

func New(store storage.Store, port int, opts ...Option) *Server {
	s := &Server{
		Port:       port,
		Host:       "127.0.0.1",
		store:      store,
		logger:     zap.NewNop(),
		sseClients: make(map[chan string]struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/version", s.handleGetVersion)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("GET /api/months", s.handleListMonths)
	mux.HandleFunc("GET /api/months/{month}", s.handleGetMonth)
	mux.HandleFunc("GET /api/months/{month}/totals", s.handleGetTotals)
	mux.HandleFunc("GET /api/months/{month}/checkbook", s.handleGetCheckbook)
	mux.HandleFunc("GET /api/months/{month}/summary", s.handleGetSummary)
	mux.HandleFunc("GET /api/events", s.handleSSE)
	return mux
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s", s.Addr()))

	if len(s.watchPaths) > 0 {
		watchTimer := timer.Child("web.watch")
		err := s.startWatcher(ctx)
		watchTimer.End()
		if err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Shutdown leaves request contexts alive, so event streams end here.
	srv.RegisterOnShutdown(s.closeStreams)
	timer.End()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", zap.String("addr", srv.Addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) closeStreams() {
	s.doneOnce.Do(func() { close(s.done) })
}

// startWatcher watches the configured paths and broadcasts SSE events when
// they change. fsnotify is not recursive, so the YYYY-MM month directories
// under a watched directory are added as well.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	roots := make(map[string]bool)
	for _, path := range s.watchPaths {
		path = filepath.Clean(path)
		if err := watcher.Add(path); err != nil {
			s.logger.Warn("failed to watch", zap.String("path", path), zap.Error(err))
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			continue
		}
		roots[path] = true
		for _, entry := range entries {
			if entry.IsDir() && isMonthDir(entry.Name()) {
				s.watch(watcher, filepath.Join(path, entry.Name()))
			}
		}
	}

	go s.runWatcher(ctx, watcher, roots)
	return nil
}

func (s *Server) watch(watcher *fsnotify.Watcher, dir string) {
	if err := watcher.Add(dir); err != nil {
		s.logger.Warn("failed to watch", zap.String("path", dir), zap.Error(err))
		return
	}
	s.logger.Debug("watching month", zap.String("path", dir))
}

func isMonthDir(name string) bool {
	_, err := ledger.ParseYearMonth(name)
	return err == nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, roots map[string]bool) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Month documents are written through a temp file and a rename.
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Has(fsnotify.Create) && roots[filepath.Dir(event.Name)] && isMonthDir(filepath.Base(event.Name)) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					s.watch(watcher, event.Name)
				}
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.logger.Debug("ledger changed", zap.String("path", event.Name))
				s.broadcast("reload")
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan string, 10)
	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}

// clients returns the number of connected SSE clients.
func (s *Server) clients() int {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	return len(s.sseClients)
}
