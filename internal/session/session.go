// Package session drives one quiz at a time through the config, loading,
// quiz, grading and results phases. The TUI and the local HTTP API both
// operate on a Session.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/cmaster/internal/grading"
	"github.com/abhisek/cmaster/internal/llm"
	"github.com/abhisek/cmaster/internal/metrics"
	"github.com/abhisek/cmaster/internal/problemgen"
	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/store"
)

// DefaultGenerationTimeout bounds one generation request including its
// regeneration attempts.
const DefaultGenerationTimeout = 90 * time.Second

var (
	// ErrNoAnswer is returned by Next when the current question has no
	// input.
	ErrNoAnswer = errors.New("no answer given")

	// ErrNotInQuiz is returned by input operations outside the quiz phase.
	ErrNotInQuiz = errors.New("no quiz in progress")
)

// HistoryRecorder keeps finished quizzes.
type HistoryRecorder interface {
	Record(ctx context.Context, rec *store.QuizRecord) error
}

// Deps are the collaborators of a Session. Generator, Grader and Profiles
// are required.
type Deps struct {
	Generator problemgen.Generator
	Grader    grading.BatchGrader
	Profiles  profile.Store
	History   HistoryRecorder
	Logger    *zap.Logger

	// GenerationTimeout defaults to DefaultGenerationTimeout.
	GenerationTimeout time.Duration
}

// Session is the quiz state machine. It is safe for concurrent use; at
// most one quiz is active at a time.
type Session struct {
	deps   Deps
	logger *zap.Logger

	mu        sync.Mutex
	phase     Phase
	profile   profile.UserProfile
	quizID    string
	config    quiz.Config
	questions []quiz.Question
	answers   []quiz.UserAnswer
	index     int
	selected  *int
	text      string
	results   *quiz.Results
	lastErr   error

	// grading is set while a Grade call owns the batch.
	grading bool
}

// New creates a Session in the config phase and loads the profile once.
func New(ctx context.Context, deps Deps) (*Session, error) {
	if deps.Generator == nil || deps.Grader == nil || deps.Profiles == nil {
		return nil, fmt.Errorf("session: generator, grader and profile store are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.GenerationTimeout <= 0 {
		deps.GenerationTimeout = DefaultGenerationTimeout
	}

	p, err := deps.Profiles.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return &Session{
		deps:    deps,
		logger:  deps.Logger.Named("session"),
		phase:   PhaseConfig,
		profile: p.Normalize(),
	}, nil
}

// Configure returns the default quiz config with focus topics taken from
// the profile's weakest topics.
func (s *Session) Configure() quiz.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := quiz.DefaultConfig()
	cfg.FocusTopics = profile.FocusTopics(s.profile)
	return cfg
}

// Profile returns a copy of the current profile.
func (s *Session) Profile() profile.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Start moves to loading and generates the questions, blocking until
// generation settles. On failure the session is back in config and the
// error is returned and kept in the snapshot.
func (s *Session) Start(ctx context.Context, cfg quiz.Config) error {
	cfg, err := s.begin(cfg)
	if err != nil {
		return err
	}
	return s.generate(ctx, cfg)
}

// StartBackground moves to loading and generates the questions in a new
// goroutine. Callers poll Snapshot for the outcome.
func (s *Session) StartBackground(ctx context.Context, cfg quiz.Config) error {
	cfg, err := s.begin(cfg)
	if err != nil {
		return err
	}
	go func() {
		_ = s.generate(ctx, cfg)
	}()
	return nil
}

func (s *Session) begin(cfg quiz.Config) (quiz.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Transition(s.phase, EventStart)
	if err != nil {
		return cfg, err
	}

	cfg = cfg.Normalize()
	if cfg.Total() == 0 {
		return cfg, quiz.ErrEmptyQuiz
	}
	s.phase = next
	s.config = cfg
	s.lastErr = nil
	metrics.QuizzesStarted.Inc()
	return cfg, nil
}

func (s *Session) generate(ctx context.Context, cfg quiz.Config) error {
	quizID := uuid.NewString()
	genCtx, cancel := context.WithTimeout(llm.WithQuizID(ctx, quizID), s.deps.GenerationTimeout)
	defer cancel()

	start := time.Now()
	questions, err := s.deps.Generator.Generate(genCtx, cfg, cfg.FocusTopics)
	if err == nil && len(questions) == 0 {
		err = errors.New("generator returned no questions")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.phase, _ = Transition(s.phase, EventGenerationFailed)
		s.lastErr = fmt.Errorf("generate quiz: %w", err)
		metrics.GenerationFailures.Inc()
		s.logger.Warn("quiz generation failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return s.lastErr
	}

	s.phase, _ = Transition(s.phase, EventGenerationSucceeded)
	s.quizID = quizID
	s.questions = questions
	s.answers = nil
	s.index = 0
	s.clearInput()
	s.logger.Info("quiz ready",
		zap.String("quiz", s.quizID),
		zap.Int("questions", len(questions)),
		zap.String("difficulty", string(cfg.Difficulty)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// SelectOption records the highlighted option of the current MCQ.
func (s *Session) SelectOption(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuiz {
		return ErrNotInQuiz
	}
	q := s.questions[s.index]
	if !q.IsMCQ() {
		return fmt.Errorf("question %s is not multiple choice", q.ID)
	}
	if i < 0 || i >= len(q.Options) {
		return fmt.Errorf("option %d out of range [0,%d)", i, len(q.Options))
	}
	s.selected = &i
	return nil
}

// SetText records the free-text input for the current question.
func (s *Session) SetText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuiz {
		return ErrNotInQuiz
	}
	if s.questions[s.index].IsMCQ() {
		return fmt.Errorf("question %s is multiple choice", s.questions[s.index].ID)
	}
	s.text = text
	return nil
}

// Next commits the current input and moves to the next question. Past
// the last question the quiz finishes and finished is true; the caller
// then runs Grade.
func (s *Session) Next() (finished bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuiz {
		return false, ErrNotInQuiz
	}
	a, ok := s.currentAnswer()
	if !ok {
		return false, ErrNoAnswer
	}
	if s.phase, err = Transition(s.phase, EventAnswerCommitted); err != nil {
		return false, err
	}
	s.answers = append(s.answers, a)
	s.clearInput()

	if s.index+1 < len(s.questions) {
		s.index++
		return false, nil
	}
	s.phase, err = Transition(s.phase, EventQuizFinished)
	return err == nil, err
}

// StopEarly finishes the quiz without committing the current input.
func (s *Session) StopEarly() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Transition(s.phase, EventQuizFinished)
	if err != nil {
		return err
	}
	s.phase = next
	s.clearInput()
	return nil
}

// Grade resolves every committed answer, folds the quiz into the profile
// and moves to results. A failed profile save or history write is logged
// and kept as the snapshot's last error; the session still reaches
// results. Only one Grade call runs per quiz; a concurrent call gets
// ErrInvalidTransition.
func (s *Session) Grade(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseGrading || s.grading {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, EventGradingSettled, s.phase)
	}
	s.grading = true
	quizID := s.quizID
	cfg := s.config
	questions := s.questions
	answers := append([]quiz.UserAnswer(nil), s.answers...)
	prev := s.profile
	s.mu.Unlock()

	graded := s.deps.Grader.GradeAll(llm.WithQuizID(ctx, quizID), questions, answers)
	results := quiz.Summarize(questions, graded)
	next := profile.Update(prev, graded, questions)

	var errs []error
	if err := s.deps.Profiles.Save(ctx, next); err != nil {
		s.logger.Error("save profile", zap.Error(err))
		errs = append(errs, fmt.Errorf("save profile: %w", err))
	}
	if s.deps.History != nil {
		rec := &store.QuizRecord{
			ID:        quizID,
			Config:    cfg,
			Questions: questions,
			Answers:   graded,
			MeanScore: results.Mean,
		}
		if err := s.deps.History.Record(ctx, rec); err != nil {
			s.logger.Error("record quiz history", zap.Error(err))
			errs = append(errs, fmt.Errorf("record history: %w", err))
		}
	}

	metrics.QuizzesCompleted.Inc()
	metrics.QuizScore.Observe(results.Mean)
	s.logger.Info("quiz graded",
		zap.String("quiz", quizID),
		zap.Int("answered", len(graded)),
		zap.Float64("mean", results.Mean))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.grading = false
	s.phase, _ = Transition(s.phase, EventGradingSettled)
	s.answers = graded
	s.results = &results
	s.profile = next
	s.lastErr = errors.Join(errs...)
	return nil
}

// Retry discards the finished quiz and returns to config.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Transition(s.phase, EventRetry)
	if err != nil {
		return err
	}
	s.phase = next
	s.quizID = ""
	s.questions = nil
	s.answers = nil
	s.results = nil
	s.index = 0
	s.lastErr = nil
	s.clearInput()
	return nil
}

// ResetProfile discards the saved profile. Only allowed outside an
// active quiz.
func (s *Session) ResetProfile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseConfig && s.phase != PhaseResults {
		return fmt.Errorf("cannot reset profile during %s", s.phase)
	}
	var err error
	if r, ok := s.deps.Profiles.(profile.Resetter); ok {
		err = r.Reset(ctx)
	} else {
		err = s.deps.Profiles.Save(ctx, profile.New())
	}
	if err != nil {
		return fmt.Errorf("reset profile: %w", err)
	}
	s.profile = profile.New()
	return nil
}

// currentAnswer builds the answer from the transient input. The caller
// holds s.mu.
func (s *Session) currentAnswer() (quiz.UserAnswer, bool) {
	q := s.questions[s.index]
	if q.IsMCQ() {
		if s.selected == nil {
			return quiz.UserAnswer{}, false
		}
		return quiz.GradeChoice(q, *s.selected), true
	}
	if strings.TrimSpace(s.text) == "" {
		return quiz.UserAnswer{}, false
	}
	return quiz.TextAnswer(q, s.text), true
}

func (s *Session) clearInput() {
	s.selected = nil
	s.text = ""
}
