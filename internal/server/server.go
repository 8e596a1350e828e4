// Package server serves the Apex document shell, the WASM bundle and static
// assets, and forwards the proxy library's paths to its backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/samber/lo"

	"github.com/Its-donkey/apex/logging"
)

// IndexFile is the document shell served at the site root.
const IndexFile = "index.html"

// Options configures a Server.
type Options struct {
	AssetsDir   string
	ProxyPrefix string
	ProxyPaths  []string
	// Backend receives every request under ProxyPrefix and ProxyPaths.
	// Without one those paths are served from AssetsDir like any other file.
	Backend *url.URL
}

// Server is the UI HTTP server.
type Server struct {
	opts    Options
	root    string
	logger  *logging.Logger
	metrics *Metrics
	handler http.Handler
}

// New validates the assets directory and shell and builds the handler chain.
func New(opts Options, logger *logging.Logger, metrics *Metrics) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}

	root, err := filepath.Abs(opts.AssetsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve assets dir: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("assets directory %s is invalid: %v", root, err)
	}
	if err := VerifyShellFile(filepath.Join(root, IndexFile)); err != nil {
		return nil, err
	}

	mime.AddExtensionType(".wasm", "application/wasm")

	s := &Server{opts: opts, root: root, logger: logger, metrics: metrics}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the full handler chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", s.metrics.Handler())

	if s.opts.Backend != nil {
		forward := s.backendHandler(s.opts.Backend)
		for _, p := range s.backendPaths() {
			mux.Handle(p, forward)
		}
	}
	mux.Handle("/", gzhttp.GzipHandler(s.staticHandler()))

	logged := logging.NewHTTPLogger(s.logger).Middleware(mux)
	return s.metrics.Middleware(s.routeLabel, logged)
}

// backendPaths lists each mux pattern once; ServeMux panics on repeats.
func (s *Server) backendPaths() []string {
	return lo.Uniq(append([]string{s.opts.ProxyPrefix}, s.opts.ProxyPaths...))
}

func (s *Server) backendHandler(target *url.URL) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.metrics.ProxyErrors.Inc()
		s.logger.WithRequestID(w.Header().Get(logging.RequestIDHeader)).
			WithCategory("proxy").
			WithField("path", r.URL.Path).
			WithField("backend", target.String()).
			Error("proxy backend request failed", err)
		http.Error(w, "proxy backend unavailable", http.StatusBadGateway)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Host = target.Host
		proxy.ServeHTTP(w, r)
	})
}

func (s *Server) staticHandler() http.Handler {
	fileServer := http.FileServer(http.Dir(s.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "/" {
			w.Header().Set("Cache-Control", "no-cache")
			http.ServeFile(w, r, filepath.Join(s.root, IndexFile))
			return
		}
		if strings.HasSuffix(r.URL.Path, ".wasm") {
			w.Header().Set("Content-Type", "application/wasm")
		}
		fileServer.ServeHTTP(w, r)
	})
}

func (s *Server) routeLabel(r *http.Request) string {
	p := r.URL.Path
	switch {
	case p == "/healthz":
		return "health"
	case p == "/metrics":
		return "metrics"
	case p == "/" || p == "/"+IndexFile:
		return "shell"
	}
	if s.opts.Backend != nil {
		for _, prefix := range s.backendPaths() {
			if strings.HasPrefix(p, prefix) {
				return "proxy"
			}
		}
	}
	if path.Ext(p) == ".wasm" {
		return "wasm"
	}
	return "asset"
}

// ListenAndServe serves until ctx is cancelled, then shuts down within
// shutdownTimeout. ready, if set, is called with the base URL once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration, ready func(baseURL string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	baseURL := "http://" + ln.Addr().String()
	s.logger.Info("server", "serving Apex UI", map[string]any{
		"url":     baseURL,
		"assets":  s.root,
		"backend": backendString(s.opts.Backend),
	})
	if ready != nil {
		ready(baseURL)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server", "shutting down", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func backendString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
