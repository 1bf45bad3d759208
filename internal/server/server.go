package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/auragen/internal/llm"
	"github.com/five82/auragen/internal/meditation"
	"github.com/five82/auragen/internal/scriptcache"
)

const (
	maxBodyBytes      = 16 << 10
	maxLocationRunes  = 200
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
	purgeInterval     = time.Hour
)

// ScriptGenerator produces a script for a location.
type ScriptGenerator interface {
	Generate(ctx context.Context, location string) (meditation.Script, error)
}

// ScriptCache stores generated scripts between requests.
type ScriptCache interface {
	Get(ctx context.Context, location string, maxAge time.Duration) (scriptcache.Entry, bool, error)
	Put(ctx context.Context, location string, script meditation.Script, model string) error
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

var _ ScriptCache = (*scriptcache.Cache)(nil)

// Options configures a Server.
type Options struct {
	Listen        string
	Provider      llm.Provider
	Model         string
	KeyConfigured bool
	CacheTTL      time.Duration
}

// Server serves the script generation API.
type Server struct {
	opts      Options
	generator ScriptGenerator
	cache     ScriptCache
	logger    *zap.Logger
	handler   http.Handler
}

// New builds a Server. cache may be nil to disable caching.
func New(opts Options, generator ScriptGenerator, cache ScriptCache, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		opts:      opts,
		generator: generator,
		cache:     cache,
		logger:    logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(cors)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)

	r.HandleFunc("/api/generate-script", s.handleGenerate)
	r.Get("/healthz", s.handleHealth)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("provider", string(s.opts.Provider)),
			zap.String("model", s.opts.Model),
			zap.Bool("key_configured", s.opts.KeyConfigured))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	})
	if s.cache != nil && s.opts.CacheTTL > 0 {
		g.Go(func() error {
			s.purgeLoop(gctx)
			return nil
		})
	}
	return g.Wait()
}

func (s *Server) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		s.purgeOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) purgeOnce(ctx context.Context) {
	removed, err := s.cache.Purge(ctx, s.opts.CacheTTL)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("purge script cache", zap.Error(err))
		}
		return
	}
	if removed > 0 {
		s.logger.Debug("purged script cache", zap.Int64("removed", removed))
	}
}
