// Package server exposes the quiz session as a local JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/abhisek/cmaster/internal/metrics"
	"github.com/abhisek/cmaster/internal/session"
	"github.com/abhisek/cmaster/internal/store"
)

// HistoryReader reads finished quizzes.
type HistoryReader interface {
	List(ctx context.Context, opts store.QueryOpts) ([]store.QuizRecord, error)
	Get(ctx context.Context, id string) (*store.QuizRecord, error)
}

// Server serves one session to a single local user.
type Server struct {
	sess    *session.Session
	history HistoryReader
	logger  *zap.Logger

	// baseCtx outlives requests; background generation and grading
	// run under it.
	baseCtx context.Context
	router  *mux.Router
}

// New builds the router. history may be nil, in which case the history
// endpoints return an empty list.
func New(ctx context.Context, sess *session.Session, history HistoryReader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sess:    sess,
		history: history,
		logger:  logger.Named("server"),
		baseCtx: ctx,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	metrics.Init()

	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/topics", s.listTopics).Methods(http.MethodGet)
	v1.HandleFunc("/profile", s.getProfile).Methods(http.MethodGet)
	v1.HandleFunc("/profile", s.resetProfile).Methods(http.MethodDelete)
	v1.HandleFunc("/quiz", s.getQuiz).Methods(http.MethodGet)
	v1.HandleFunc("/quiz", s.startQuiz).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/select", s.selectOption).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/text", s.setText).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/next", s.next).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/stop", s.stop).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/retry", s.retry).Methods(http.MethodPost)
	v1.HandleFunc("/history", s.listHistory).Methods(http.MethodGet)
	v1.HandleFunc("/history/{id}", s.getHistory).Methods(http.MethodGet)

	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// gradeInBackground settles a finished quiz without holding the request.
func (s *Server) gradeInBackground() {
	go func() {
		if err := s.sess.Grade(s.baseCtx); err != nil {
			s.logger.Error("grade quiz", zap.Error(err))
		}
	}()
}
