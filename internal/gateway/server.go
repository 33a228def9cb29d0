// Package gateway is the webhook HTTP server: it receives messaging-provider
// callbacks, orchestrates the assistant round trip, and renders segmented
// replies in the provider's markup.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soyeahso/wabridge/internal/assistant"
	"github.com/soyeahso/wabridge/internal/config"
	"github.com/soyeahso/wabridge/internal/logging"
	"github.com/soyeahso/wabridge/internal/metrics"
)

// Responder produces the reply text for an inbound message. ok reports
// whether the text is a real answer rather than the apology fallback.
type Responder interface {
	Reply(ctx context.Context, sender, body string) (text string, ok bool)
}

// AssistantChecker retrieves the remote assistant descriptor.
type AssistantChecker interface {
	Assistant(ctx context.Context) (assistant.Assistant, error)
}

// Server is the webhook HTTP server.
type Server struct {
	cfg       config.Config
	log       *logging.Logger
	responder Responder
	checker   AssistantChecker
	metrics   *metrics.Metrics

	httpServer *http.Server
}

// New creates a new webhook server.
func New(cfg config.Config, responder Responder, checker AssistantChecker, m *metrics.Metrics, log *logging.Logger) *Server {
	return &Server{
		cfg:       cfg,
		log:       log.Sub("gateway"),
		responder: responder,
		checker:   checker,
		metrics:   m,
	}
}

// routes builds the HTTP handler with the full middleware chain.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.log))

	// Two equivalent webhook paths, for provider routing flexibility.
	r.Post("/", s.handleWebhook)
	r.Post("/webhook", s.handleWebhook)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	}
}

// Start begins listening for webhook requests. It blocks until the context
// is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Server)

	// The handler blocks on the full run-polling budget, so the write
	// timeout must exceed it.
	writeTimeout := time.Duration(s.cfg.OpenAI.RunTimeoutSeconds)*time.Second + 15*time.Second

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Server.Bind).
		Int("max_segment_length", s.cfg.Reply.MaxLength).
		Msg("webhook server ready")

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down webhook server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
