package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
	sloghttp "github.com/samber/slog-http"
)

const shutdownTimeout = 5 * time.Second

// Options selects which endpoints the server exposes
type Options struct {
	Addr string
	// Webhook receives Telegram updates on POST /webhook.
	Webhook http.Handler
	// FeedPath is the exported RSS file served on GET /feed.xml.
	FeedPath string
	// Gatherer backs GET /metrics.
	Gatherer prometheus.Gatherer
}

// Server exposes the webhook, the exported feed, metrics and a health check
type Server struct {
	opts   Options
	logger *slog.Logger
}

// New creates a new HTTP server
func New(opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{opts: opts, logger: logger}
}

// Handler builds the routed handler with request logging and panic recovery
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.opts.Webhook != nil {
		mux.Handle("POST /webhook", s.opts.Webhook)
	}
	if s.opts.FeedPath != "" {
		mux.HandleFunc("GET /feed.xml", s.handleFeed)
	}
	if s.opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start serves until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", "addr", s.opts.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return oops.With("addr", s.opts.Addr).Wrap(err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.opts.FeedPath)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Feed not exported yet", http.StatusNotFound)
			return
		}
		s.logger.Error("Error reading feed", "path", s.opts.FeedPath, "error", err)
		http.Error(w, "Failed to read feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
