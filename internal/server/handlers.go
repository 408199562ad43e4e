package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/session"
	"github.com/abhisek/cmaster/internal/store"
	"github.com/abhisek/cmaster/internal/topics"
)

type topicView struct {
	Name string `json:"name"`
	Goal string `json:"goal"`
}

type profileView struct {
	Profile profile.UserProfile  `json:"profile"`
	Ranked  []profile.TopicCount `json:"ranked"`
}

type historyView struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Config    quiz.Config   `json:"config"`
	MeanScore float64       `json:"meanScore"`
	Questions int           `json:"questions"`
	Answered  int           `json:"answered"`
	Results   *quiz.Results `json:"results,omitempty"`
}

func newHistoryView(rec store.QuizRecord, withResults bool) historyView {
	v := historyView{
		ID:        rec.ID,
		Timestamp: rec.Timestamp,
		Config:    rec.Config,
		MeanScore: rec.MeanScore,
		Questions: len(rec.Questions),
		Answered:  len(rec.Answers),
	}
	if withResults {
		res := rec.Results()
		v.Results = &res
	}
	return v
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrInvalidTransition), errors.Is(err, session.ErrNotInQuiz):
		status = http.StatusConflict
	case errors.Is(err, session.ErrNoAnswer):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, quiz.ErrEmptyQuiz), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errors.Join(errBadRequest, err)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTopics(w http.ResponseWriter, _ *http.Request) {
	all := topics.All()
	out := make([]topicView, len(all))
	for i, t := range all {
		out[i] = topicView{Name: t.Name, Goal: t.Goal}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProfile(w http.ResponseWriter, _ *http.Request) {
	p := s.sess.Profile()
	s.writeJSON(w, http.StatusOK, profileView{Profile: p, Ranked: profile.Ranked(p)})
}

func (s *Server) resetProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.ResetProfile(r.Context()); err != nil {
		s.writeError(w, errors.Join(session.ErrInvalidTransition, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getQuiz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

// startQuiz begins generation. A missing body uses the personalized
// default config.
func (s *Server) startQuiz(w http.ResponseWriter, r *http.Request) {
	cfg := s.sess.Configure()
	if err := decode(r, &cfg); err != nil {
		s.writeError(w, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.sess.StartBackground(s.baseCtx, cfg); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, s.sess.Snapshot())
}

func (s *Server) selectOption(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Option *int `json:"option"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	if body.Option == nil {
		s.writeError(w, errors.Join(errBadRequest, errors.New("option is required")))
		return
	}
	if err := s.sess.SelectOption(*body.Option); err != nil {
		if !errors.Is(err, session.ErrNotInQuiz) {
			err = errors.Join(errBadRequest, err)
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) setText(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.sess.SetText(body.Text); err != nil {
		if !errors.Is(err, session.ErrNotInQuiz) {
			err = errors.Join(errBadRequest, err)
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) next(w http.ResponseWriter, _ *http.Request) {
	finished, err := s.sess.Next()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if finished {
		s.gradeInBackground()
	}
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) stop(w http.ResponseWriter, _ *http.Request) {
	if err := s.sess.StopEarly(); err != nil {
		s.writeError(w, err)
		return
	}
	s.gradeInBackground()
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) retry(w http.ResponseWriter, _ *http.Request) {
	if err := s.sess.Retry(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	out := []historyView{}
	if s.history == nil {
		s.writeJSON(w, http.StatusOK, out)
		return
	}

	opts := store.QueryOpts{Limit: 20}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.Join(errBadRequest, errors.New("limit must be a non-negative integer")))
			return
		}
		opts.Limit = n
	}

	records, err := s.history.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, rec := range records {
		out = append(out, newHistoryView(rec, false))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.NotFound(w, r)
		return
	}
	rec, err := s.history.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rec == nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "quiz not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, newHistoryView(*rec, true))
}
