// Package httpserver wires the reposcribe HTTP endpoints onto the API and
// admin listeners.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/reposcribe/internal/config"
	serrors "git.home.luguber.info/inful/reposcribe/internal/errors"
	"git.home.luguber.info/inful/reposcribe/internal/server/handlers"
	smw "git.home.luguber.info/inful/reposcribe/internal/server/middleware"
	"git.home.luguber.info/inful/reposcribe/internal/store"
)

// Options carries optional collaborators for the HTTP servers.
type Options struct {
	Store    store.Store
	Registry *prometheus.Registry
}

// Server manages the API and admin HTTP endpoints.
type Server struct {
	apiServer    *http.Server
	adminServer  *http.Server
	cfg          *config.Config
	opts         Options
	errorAdapter *serrors.HTTPErrorAdapter

	streamHandlers     *handlers.StreamHandlers
	repoHandlers       *handlers.RepoHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, service handlers.DocService, opts Options) *Server {
	s := &Server{
		cfg:          cfg,
		opts:         opts,
		errorAdapter: serrors.NewHTTPErrorAdapter(slog.Default()),
	}

	s.streamHandlers = handlers.NewStreamHandlers(service)
	s.repoHandlers = handlers.NewRepoHandlers(opts.Store)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(time.Now())

	s.mchain = smw.Chain(slog.Default(), s.errorAdapter)

	return s
}

// Start binds both listeners and starts serving. Ports are pre-bound so a
// conflict surfaces as one aggregate error instead of partial startup.
func (s *Server) Start(ctx context.Context) error {
	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{
		{name: "api", port: s.cfg.Server.Port},
		{name: "admin", port: s.cfg.Server.AdminPort},
	}

	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		addr := fmt.Sprintf(":%d", binds[i].port)
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return fmt.Errorf("http startup failed: %w", errors.Join(bindErrs...))
	}

	s.apiServer = &http.Server{
		Handler:           s.mchain(s.apiMux()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.adminServer = &http.Server{
		Handler:           s.mchain(s.adminMux()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.startServerWithListener("api", s.apiServer, binds[0].ln)
	s.startServerWithListener("admin", s.adminServer, binds[1].ln)

	slog.Info("HTTP servers started",
		slog.Int("api_port", s.cfg.Server.Port),
		slog.Int("admin_port", s.cfg.Server.AdminPort))
	return nil
}

// Stop gracefully shuts down both HTTP servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.apiServer != nil {
		if err := s.apiServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	slog.Info("HTTP servers stopped")
	return nil
}

func (s *Server) apiMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/repos/stream", s.streamHandlers.HandleStream)
	mux.HandleFunc("/api/repos", s.repoHandlers.HandleRepos)
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealth)
	return mux
}

func (s *Server) adminMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealth)
	if s.opts.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}
	return mux
}

// startServerWithListener launches an http.Server on a pre-bound listener.
func (s *Server) startServerWithListener(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error(fmt.Sprintf("%s server error", kind), "error", err)
		}
	}()
}
