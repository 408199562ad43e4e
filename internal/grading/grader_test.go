package grading

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/cmaster/internal/llm"
	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/topics"
)

func shortQuestion(id string) quiz.Question {
	return quiz.Question{
		ID:          id,
		Type:        quiz.TypeShort,
		Topic:       topics.CodeTracing,
		Text:        "What does printf(\"%d\", 7/2) print?",
		ModelAnswer: "3",
	}
}

func mcqQuestion(id string) quiz.Question {
	idx := 1
	return quiz.Question{
		ID:                 id,
		Type:               quiz.TypeMCQ,
		Topic:              topics.Pointers,
		Text:               "Which operator dereferences a pointer?",
		Options:            []string{"&", "*", "->"},
		CorrectOptionIndex: &idx,
		ModelAnswer:        "* reads the value at the address.",
	}
}

func TestGrade_ParsesVerdict(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"score": 100, "feedback": "Correct, integer division truncates.", "modelAnswer": "3"}`),
	})
	g := New(mock, DefaultConfig())

	res := g.Grade(context.Background(), shortQuestion("q1"), "3")
	if res.Score != 100 {
		t.Errorf("score = %d, want 100", res.Score)
	}
	if res.ModelAnswer != "3" {
		t.Errorf("model answer = %q, want 3", res.ModelAnswer)
	}

	req := mock.Calls[0]
	if req.Schema != GradeSchema {
		t.Error("expected GradeSchema on the request")
	}
	if req.Temperature != 0.2 {
		t.Errorf("temperature = %f, want 0.2", req.Temperature)
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Question:\nWhat does printf", "Model answer:\n3", "Student answer:\n3"} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
	if !strings.Contains(req.System, "missing semicolon") {
		t.Error("system prompt should carry the code writing rubric")
	}
}

func TestGrade_ClampsScore(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"score": 140, "feedback": "x", "modelAnswer": "3"}`)},
		llm.MockResponse{Content: json.RawMessage(`{"score": -5, "feedback": "x", "modelAnswer": "3"}`)},
	)
	g := New(mock, DefaultConfig())

	if got := g.Grade(context.Background(), shortQuestion("q1"), "3").Score; got != 100 {
		t.Errorf("score = %d, want 100", got)
	}
	if got := g.Grade(context.Background(), shortQuestion("q1"), "4").Score; got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}

func TestGrade_FallbackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	g := New(mock, DefaultConfig())

	res := g.Grade(context.Background(), shortQuestion("q1"), "3")
	want := quiz.GradingResult{Score: 0, Feedback: FallbackFeedback, ModelAnswer: "3"}
	if res != want {
		t.Errorf("got %+v, want %+v", res, want)
	}
}

func TestGrade_FallbackOnMalformedJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json`)})
	g := New(mock, DefaultConfig())

	q := shortQuestion("q1")
	q.ModelAnswer = ""
	res := g.Grade(context.Background(), q, "3")
	if res.Feedback != FallbackFeedback || res.ModelAnswer != "N/A" {
		t.Errorf("unexpected fallback: %+v", res)
	}
}

func TestGrade_Timeout(t *testing.T) {
	mock := &llm.MockProvider{Respond: func(llm.Request) llm.MockResponse {
		time.Sleep(50 * time.Millisecond)
		return llm.MockResponse{Content: json.RawMessage(`{"score": 100, "feedback": "ok", "modelAnswer": "3"}`)}
	}}
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Millisecond
	g := New(mock, cfg)

	res := g.Grade(context.Background(), shortQuestion("q1"), "3")
	if res.Feedback != FallbackFeedback {
		t.Errorf("expected fallback after timeout, got %+v", res)
	}
}

func TestGradeAll(t *testing.T) {
	var calls atomic.Int32
	mock := &llm.MockProvider{Respond: func(req llm.Request) llm.MockResponse {
		calls.Add(1)
		if strings.Contains(req.Messages[0].Content, "Student answer:\nfail") {
			return llm.MockResponse{Err: errors.New("provider down")}
		}
		return llm.MockResponse{Content: json.RawMessage(`{"score": 85, "feedback": "Good.", "modelAnswer": "3"}`)}
	}}
	cfg := DefaultConfig()
	cfg.RatePerSecond = 0
	g := New(mock, cfg)

	questions := []quiz.Question{mcqQuestion("q1"), shortQuestion("q2"), shortQuestion("q3"), shortQuestion("q4")}
	answers := []quiz.UserAnswer{
		quiz.GradeChoice(questions[0], 1),
		quiz.TextAnswer(questions[1], "3"),
		quiz.TextAnswer(questions[2], "fail"),
	}

	graded := g.GradeAll(context.Background(), questions, answers)
	if len(graded) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(graded))
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 grading calls, got %d", calls.Load())
	}

	if *graded[0].Score != 100 || graded[0].ModelAnswer != questions[0].ModelAnswer {
		t.Errorf("mcq answer should keep its score and gain the model answer: %+v", graded[0])
	}
	if *graded[1].Score != 85 || !graded[1].AIGraded || graded[1].Feedback != "Good." {
		t.Errorf("unexpected graded answer: %+v", graded[1])
	}
	if *graded[2].Score != 0 || graded[2].Feedback != FallbackFeedback {
		t.Errorf("failed task should fall back: %+v", graded[2])
	}

	if answers[1].Score != nil {
		t.Error("input answers must not be modified")
	}
}

func TestGradeAll_SkipsAlreadyGraded(t *testing.T) {
	mock := llm.NewMockProvider()
	g := New(mock, DefaultConfig())

	q := shortQuestion("q1")
	a := quiz.TextAnswer(q, "3").Apply(quiz.GradingResult{Score: 90, Feedback: "ok", ModelAnswer: "3"})

	graded := g.GradeAll(context.Background(), []quiz.Question{q}, []quiz.UserAnswer{a})
	if mock.CallCount() != 0 {
		t.Errorf("expected no calls, got %d", mock.CallCount())
	}
	if *graded[0].Score != 90 {
		t.Errorf("score = %d, want 90", *graded[0].Score)
	}
}

func TestGradeAll_CancelledContext(t *testing.T) {
	mock := &llm.MockProvider{Respond: func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Content: json.RawMessage(`{"score": 100, "feedback": "ok", "modelAnswer": "3"}`)}
	}}
	g := New(mock, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := shortQuestion("q1")
	graded := g.GradeAll(ctx, []quiz.Question{q}, []quiz.UserAnswer{quiz.TextAnswer(q, "3")})
	if graded[0].Feedback != FallbackFeedback || *graded[0].Score != 0 {
		t.Errorf("expected fallback for cancelled context, got %+v", graded[0])
	}
}
