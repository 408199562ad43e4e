package profile

import (
	"context"
	"maps"
	"math"
	"slices"
	"testing"

	"github.com/abhisek/cmaster/internal/quiz"
)

func question(id, topic string) quiz.Question {
	return quiz.Question{ID: id, Type: quiz.TypeShort, Topic: topic, Text: "t", ModelAnswer: "m"}
}

func graded(id string, score int) quiz.UserAnswer {
	return quiz.UserAnswer{QuestionID: id, Score: &score, AIGraded: true}
}

func TestUpdate_FirstQuiz(t *testing.T) {
	questions := []quiz.Question{question("q1", "Pointers"), question("q2", "Arrays")}
	answers := []quiz.UserAnswer{graded("q1", 40), graded("q2", 100)}

	got := Update(New(), answers, questions)

	if !maps.Equal(got.WeakTopics, map[string]int{"Pointers": 1}) {
		t.Fatalf("WeakTopics = %v", got.WeakTopics)
	}
	if got.TotalQuizzes != 1 {
		t.Fatalf("TotalQuizzes = %d, want 1", got.TotalQuizzes)
	}
	if got.AverageScore != 70 {
		t.Fatalf("AverageScore = %v, want 70", got.AverageScore)
	}
}

func TestUpdate_RunningMean(t *testing.T) {
	prev := UserProfile{WeakTopics: map[string]int{}, TotalQuizzes: 1, AverageScore: 70}
	questions := []quiz.Question{question("q1", "Arrays")}
	answers := []quiz.UserAnswer{graded("q1", 100)}

	got := Update(prev, answers, questions)
	if got.AverageScore != 85 {
		t.Fatalf("AverageScore = %v, want 85", got.AverageScore)
	}
	if got.TotalQuizzes != 2 {
		t.Fatalf("TotalQuizzes = %d, want 2", got.TotalQuizzes)
	}
}

func TestUpdate_ExactMeanOverManyQuizzes(t *testing.T) {
	p := New()
	means := []int{10, 90, 50, 20, 80}
	for i, m := range means {
		q := question("q", "Code Tracing")
		p = Update(p, []quiz.UserAnswer{graded("q", m)}, []quiz.Question{q})
		if p.TotalQuizzes != i+1 {
			t.Fatalf("TotalQuizzes = %d after %d quizzes", p.TotalQuizzes, i+1)
		}
	}
	if math.Abs(p.AverageScore-50) > 1e-9 {
		t.Fatalf("AverageScore = %v, want 50", p.AverageScore)
	}
}

func TestUpdate_SkippedCountsAsZero(t *testing.T) {
	questions := []quiz.Question{question("q1", "Pointers"), question("q2", "Arrays")}
	answers := []quiz.UserAnswer{graded("q1", 100)}

	got := Update(New(), answers, questions)
	if got.WeakTopics["Arrays"] != 1 {
		t.Fatalf("skipped question should count as weak: %v", got.WeakTopics)
	}
	if got.AverageScore != 50 {
		t.Fatalf("AverageScore = %v, want 50", got.AverageScore)
	}
}

func TestUpdate_EmptyQuiz(t *testing.T) {
	got := Update(New(), nil, nil)
	if got.TotalQuizzes != 1 || got.AverageScore != 0 || len(got.WeakTopics) != 0 {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestUpdate_DoesNotMutatePrevious(t *testing.T) {
	prev := UserProfile{WeakTopics: map[string]int{"Pointers": 2}, TopicOrder: []string{"Pointers"}, TotalQuizzes: 3, AverageScore: 60}
	questions := []quiz.Question{question("q1", "Pointers"), question("q2", "Arrays")}

	_ = Update(prev, []quiz.UserAnswer{graded("q1", 0), graded("q2", 0)}, questions)

	if prev.WeakTopics["Pointers"] != 2 || len(prev.WeakTopics) != 1 || len(prev.TopicOrder) != 1 {
		t.Fatalf("previous profile was mutated: %+v", prev)
	}
}

func TestUpdate_NotIdempotent(t *testing.T) {
	questions := []quiz.Question{question("q1", "Pointers")}
	answers := []quiz.UserAnswer{graded("q1", 30)}

	once := Update(New(), answers, questions)
	twice := Update(once, answers, questions)
	if twice.TotalQuizzes != 2 || twice.WeakTopics["Pointers"] != 2 {
		t.Fatalf("second application should advance the profile: %+v", twice)
	}
}

func TestUpdate_ThresholdIsStrict(t *testing.T) {
	questions := []quiz.Question{question("q1", "Arrays"), question("q2", "Pointers")}
	got := Update(New(), []quiz.UserAnswer{graded("q1", 70), graded("q2", 69)}, questions)
	if _, ok := got.WeakTopics["Arrays"]; ok {
		t.Fatal("a score of exactly 70 is not weak")
	}
	if got.WeakTopics["Pointers"] != 1 {
		t.Fatalf("WeakTopics = %v", got.WeakTopics)
	}
}

func TestWeakTopics_Ranking(t *testing.T) {
	p := UserProfile{
		WeakTopics: map[string]int{"A": 3, "B": 5, "C": 1, "D": 5},
		TopicOrder: []string{"A", "B", "C", "D"},
	}
	got := FocusTopics(p)
	if !slices.Equal(got, []string{"B", "D", "A"}) {
		t.Fatalf("FocusTopics = %v, want [B D A]", got)
	}
}

func TestWeakTopics_LegacyProfileWithoutOrder(t *testing.T) {
	p := UserProfile{WeakTopics: map[string]int{"D": 5, "C": 1, "B": 5, "A": 3}}
	got := FocusTopics(p)
	if !slices.Equal(got, []string{"B", "D", "A"}) {
		t.Fatalf("FocusTopics = %v, want [B D A]", got)
	}
}

func TestWeakTopics_Empty(t *testing.T) {
	if got := FocusTopics(New()); len(got) != 0 {
		t.Fatalf("expected no focus topics, got %v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if p.TotalQuizzes != 0 || p.WeakTopics == nil {
		t.Fatalf("expected default profile, got %+v", p)
	}

	want := Update(New(), []quiz.UserAnswer{graded("q1", 10)}, []quiz.Question{question("q1", "Arrays")})
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TotalQuizzes != 1 || got.WeakTopics["Arrays"] != 1 || !slices.Equal(got.TopicOrder, []string{"Arrays"}) {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	got, _ = s.Load(ctx)
	if got.TotalQuizzes != 0 {
		t.Fatalf("expected reset profile, got %+v", got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode([]byte("{nope")); err == nil {
		t.Fatal("expected decode error")
	}
}
