package session

import (
	"errors"
	"fmt"
)

// Phase is the stage of the quiz cycle.
type Phase int

const (
	PhaseConfig  Phase = iota // Choosing counts, difficulty and topics
	PhaseLoading              // Waiting for generated questions
	PhaseQuiz                 // Answering questions
	PhaseGrading              // Waiting for free-text grades
	PhaseResults              // Showing the graded quiz
)

var phaseNames = [...]string{"config", "loading", "quiz", "grading", "results"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Event drives a phase change.
type Event int

const (
	EventStart Event = iota
	EventGenerationSucceeded
	EventGenerationFailed
	EventAnswerCommitted
	EventQuizFinished
	EventGradingSettled
	EventRetry
)

var eventNames = [...]string{
	"start", "generationSucceeded", "generationFailed",
	"answerCommitted", "quizFinished", "gradingSettled", "retry",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return fmt.Sprintf("Event(%d)", int(e))
	}
	return eventNames[e]
}

// ErrInvalidTransition is returned for an event the current phase does
// not accept.
var ErrInvalidTransition = errors.New("invalid phase transition")

type edge struct {
	from  Phase
	event Event
}

var transitions = map[edge]Phase{
	{PhaseConfig, EventStart}:                PhaseLoading,
	{PhaseLoading, EventGenerationSucceeded}: PhaseQuiz,
	{PhaseLoading, EventGenerationFailed}:    PhaseConfig,
	{PhaseQuiz, EventAnswerCommitted}:        PhaseQuiz,
	{PhaseQuiz, EventQuizFinished}:           PhaseGrading,
	{PhaseGrading, EventGradingSettled}:      PhaseResults,
	{PhaseResults, EventRetry}:               PhaseConfig,
}

// Transition returns the phase reached from p on e.
func Transition(p Phase, e Event) (Phase, error) {
	next, ok := transitions[edge{p, e}]
	if !ok {
		return p, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, p)
	}
	return next, nil
}
