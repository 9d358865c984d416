package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/locomotion/internal/config"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/rig"
)

// Server exposes one rig over a websocket and drives its tick loop. Clients
// send input frames and receive a snapshot after every tick.
type Server struct {
	cfg    config.ServerConfig
	rig    *rig.Rig
	logger log.Log

	mu      sync.Mutex
	clients map[string]*client

	running atomic.Bool
}

func New(cfg config.ServerConfig, r *rig.Rig, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Server{
		cfg:     cfg,
		rig:     r,
		logger:  logger.With(log.String("component", "server")),
		clients: make(map[string]*client),
	}
}

// Handler routes /ws, /metrics and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Dt is the fixed simulation step in seconds.
func (s *Server) Dt() float64 {
	if s.cfg.TickRate <= 0 {
		return 0
	}
	return 1 / float64(s.cfg.TickRate)
}

// Run serves HTTP and ticks the rig until ctx is cancelled, then shuts the
// listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if !s.running.CompareAndSwap(false, true) {
		_ = listener.Close()
		return ErrServerAlreadyRunning
	}
	defer s.running.Store(false)

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", log.String("addr", listener.Addr().String()))
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.RunSimulation(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		s.closeClients()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// RunSimulation ticks the rig at the configured rate with a fixed step until
// ctx is cancelled.
func (s *Server) RunSimulation(ctx context.Context) error {
	interval := time.Second / time.Duration(max(s.cfg.TickRate, 1))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Step(s.Dt())
		}
	}
}

// Step advances the rig once and broadcasts the resulting snapshot.
func (s *Server) Step(dt float64) rig.Snapshot {
	if err := s.rig.Tick(dt); err != nil {
		s.logger.Warn("tick failed", log.Error(err))
	}
	snapshot := s.rig.Snapshot()
	s.broadcast(stateMessage{Type: messageState, Snapshot: snapshot})
	return snapshot
}

func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return s.cfg.ShutdownTimeout
}
