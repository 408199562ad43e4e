package session

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/router"
	"github.com/abhisek/cmaster/internal/screen"
	sess "github.com/abhisek/cmaster/internal/session"
	"github.com/abhisek/cmaster/internal/ui/components"
	"github.com/abhisek/cmaster/internal/ui/layout"
)

// SessionScreen drives a quiz session through config, loading, quiz,
// grading and results. It renders from the session snapshot, so leaving
// and re-entering the screen resumes wherever the session is.
type SessionScreen struct {
	session *sess.Session
	snap    sess.Snapshot

	form configForm

	// Inputs for the question with ID questionID.
	questionID string
	options    components.OptionList
	answer     components.AnswerBox

	tickID   int
	frame    int
	grading  bool
	notice   string
	offset   int
	width    int
	height   int
	reported string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen for s.
func New(s *sess.Session) *SessionScreen {
	scr := &SessionScreen{session: s}
	scr.form = newConfigForm(s.Configure())
	scr.snap = s.Snapshot()
	return scr
}

func (s *SessionScreen) Init() tea.Cmd {
	return s.sync()
}

func (s *SessionScreen) Title() string {
	switch s.snap.Phase {
	case sess.PhaseLoading:
		return "Generating Quiz"
	case sess.PhaseQuiz:
		return "Quiz"
	case sess.PhaseGrading:
		return "Grading"
	case sess.PhaseResults:
		return "Results"
	default:
		return "New Quiz"
	}
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch s.snap.Phase {
	case sess.PhaseConfig:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "←→", Description: "Change"},
			{Key: "Space", Description: "Toggle"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case sess.PhaseQuiz:
		hints := []layout.KeyHint{{Key: "Tab", Description: "Next"}}
		if s.snap.IsLast() {
			hints[0].Description = "Finish"
		}
		if s.snap.Question != nil && s.snap.Question.IsMCQ() {
			hints = append(hints, layout.KeyHint{Key: "1-4", Description: "Choose"})
		}
		return append(hints,
			layout.KeyHint{Key: "Ctrl+X", Description: "Stop early"},
			layout.KeyHint{Key: "Esc", Description: "Pause"},
		)
	case sess.PhaseResults:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "r", Description: "New quiz"},
			{Key: "Esc", Description: "Home"},
		}
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
}

// sync re-reads the snapshot and starts whatever the new phase needs: a
// poll loop while loading or grading, the grading call once the quiz is
// finished, and fresh inputs for a new question.
func (s *SessionScreen) sync() tea.Cmd {
	prev := s.snap.Phase
	s.snap = s.session.Snapshot()

	var cmds []tea.Cmd
	switch s.snap.Phase {
	case sess.PhaseConfig:
		// After a failed generation the form keeps what the user chose.
		if prev == sess.PhaseResults {
			s.form = newConfigForm(s.session.Configure())
		}
	case sess.PhaseLoading:
		cmds = append(cmds, s.startPoll())
	case sess.PhaseQuiz:
		cmds = append(cmds, s.prepareQuestion())
	case sess.PhaseGrading:
		cmds = append(cmds, s.startPoll())
		if !s.grading {
			s.grading = true
			cmds = append(cmds, s.grade())
		}
	case sess.PhaseResults:
		s.grading = false
		if prev != sess.PhaseResults {
			s.offset = 0
		}
		cmds = append(cmds, s.reportStats())
	}
	return tea.Batch(cmds...)
}

// startPoll begins a new poll loop; older loops die on their next tick.
func (s *SessionScreen) startPoll() tea.Cmd {
	s.tickID++
	return pollTick(s.tickID)
}

func pollTick(id int) tea.Cmd {
	return tea.Tick(pollInterval, func(_ time.Time) tea.Msg {
		return pollTickMsg{ID: id}
	})
}

func (s *SessionScreen) grade() tea.Cmd {
	session := s.session
	return func() tea.Msg {
		return gradeDoneMsg{Err: session.Grade(context.Background())}
	}
}

// reportStats pushes the updated profile to the header once per quiz.
func (s *SessionScreen) reportStats() tea.Cmd {
	if s.reported == s.snap.QuizID {
		return nil
	}
	s.reported = s.snap.QuizID
	p := s.snap.Profile
	return func() tea.Msg {
		return screen.StatsMsg{Stats: screen.StatsFor(p)}
	}
}

// prepareQuestion builds inputs when the current question changes,
// restoring any input the session already holds for it.
func (s *SessionScreen) prepareQuestion() tea.Cmd {
	q := s.snap.Question
	if q == nil || q.ID == s.questionID {
		return nil
	}
	s.questionID = q.ID
	s.notice = ""

	if q.IsMCQ() {
		s.options = components.NewOptionList(q.Options)
		if s.snap.Selected != nil {
			s.options.Choose(*s.snap.Selected)
		}
		return nil
	}

	height := 4
	if q.Type == quiz.TypeLong {
		height = 10
	}
	s.answer = components.NewAnswerBox("Type your answer...", s.inputWidth(), height)
	s.answer.SetValue(s.snap.Text)
	return s.answer.Init()
}

func (s *SessionScreen) inputWidth() int {
	if s.width == 0 {
		return 72
	}
	return components.ContentWidth(s.width, 96) - 2
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pollTickMsg:
		if msg.ID != s.tickID {
			return s, nil
		}
		s.frame++
		return s, s.sync()

	case gradeDoneMsg:
		s.grading = false
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
		return s, s.sync()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.snap.Phase == sess.PhaseQuiz && s.snap.Question != nil && !s.snap.Question.IsMCQ() {
		var cmd tea.Cmd
		s.answer, cmd = s.answer.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.snap.Phase {
	case sess.PhaseConfig:
		return s.handleConfigKey(msg)
	case sess.PhaseQuiz:
		return s.handleQuizKey(msg)
	case sess.PhaseResults:
		return s.handleResultsKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleConfigKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		s.form.move(-1)
	case "down", "j":
		s.form.move(1)
	case "left", "h", "-":
		s.form.adjust(-1)
	case "right", "l", "+", "=":
		s.form.adjust(1)
	case "space", " ":
		s.form.toggle()
	case "enter":
		if s.form.row >= rowFirstTopic && s.form.row < s.form.rowStart() {
			s.form.toggle()
			return s, nil
		}
		return s, s.start()
	case "s":
		return s, s.start()
	}
	return s, nil
}

// start kicks off generation in the background and polls for the result.
func (s *SessionScreen) start() tea.Cmd {
	cfg := s.form.config()
	if err := cfg.Validate(); err != nil {
		s.notice = "Add at least one question before starting."
		return nil
	}
	if err := s.session.StartBackground(context.Background(), cfg); err != nil {
		s.notice = err.Error()
		return nil
	}
	s.notice = ""
	s.questionID = ""
	return s.sync()
}

func (s *SessionScreen) handleQuizKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "ctrl+n":
		return s, s.next()
	case "ctrl+x":
		if err := s.session.StopEarly(); err != nil {
			s.notice = err.Error()
			return s, nil
		}
		return s, s.sync()
	}

	q := s.snap.Question
	if q == nil {
		return s, nil
	}
	if q.IsMCQ() {
		s.options, _ = s.options.Update(msg)
		if s.options.HasChoice() {
			if err := s.session.SelectOption(s.options.Chosen); err != nil {
				s.notice = err.Error()
			} else {
				s.notice = ""
			}
		}
		s.snap = s.session.Snapshot()
		return s, nil
	}

	var cmd tea.Cmd
	s.answer, cmd = s.answer.Update(msg)
	if err := s.session.SetText(s.answer.Value()); err != nil {
		s.notice = err.Error()
	} else if !s.answer.Blank() {
		s.notice = ""
	}
	return s, cmd
}

// next commits the current answer. A blank answer keeps the user on the
// question with a notice.
func (s *SessionScreen) next() tea.Cmd {
	if _, err := s.session.Next(); err != nil {
		if errors.Is(err, sess.ErrNoAnswer) {
			s.notice = "Answer the question before moving on, or press Ctrl+X to stop early."
		} else {
			s.notice = err.Error()
		}
		return nil
	}
	s.notice = ""
	return s.sync()
}

func (s *SessionScreen) handleResultsKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case "r", "n":
		if err := s.session.Retry(); err != nil {
			s.notice = err.Error()
			return s, nil
		}
		s.questionID = ""
		return s, s.sync()
	case "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if off, ok := components.ScrollKey(key, s.offset, s.height-2); ok {
		s.offset = off
	}
	return s, nil
}
