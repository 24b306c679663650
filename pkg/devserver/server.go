// Package devserver is a local stand-in for the chat and demo backends.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Server serves the two backend endpoints the session view calls.
type Server struct {
	responder Responder
	demo      DemoRunner
	recorder  Recorder
	log       *logrus.Entry
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder logs every chat exchange to r.
func WithRecorder(r Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// WithLogger sets the server logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Server) {
		s.log = log
	}
}

// New creates a Server. A nil demo runner means NoopRunner.
func New(responder Responder, demo DemoRunner, opts ...Option) *Server {
	if demo == nil {
		demo = NoopRunner{}
	}
	s := &Server{
		responder: responder,
		demo:      demo,
		log:       logrus.WithField("component", "devserver"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&requestLogFormatter{log: s.log}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/openai-chat", s.handleChat)
		r.Post("/run-prueba", s.handleRunDemo)
	})

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("dev server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("dev server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing message"})
		return
	}

	log := s.log.WithField("request_id", middleware.GetReqID(r.Context()))

	reply, err := s.responder.Reply(r.Context(), payload.Message)
	s.record(r.Context(), log, payload.Message, reply, err != nil)
	if err != nil {
		log.WithError(err).Error("responder failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "assistant unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (s *Server) handleRunDemo(w http.ResponseWriter, r *http.Request) {
	pid, err := s.demo.Run(r.Context())
	if err != nil {
		s.log.WithError(err).Error("demo failed to start")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "demo failed to start"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "started", "pid": pid})
}

func (s *Server) record(ctx context.Context, log *logrus.Entry, message, reply string, failed bool) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, message, reply, failed); err != nil {
		log.WithError(err).Warn("failed to record exchange")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
