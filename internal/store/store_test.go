package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// A unique shared-cache name keeps tests isolated from each other.
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases; see
		// TestFileDatabaseUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cmaster.db")
	require.NoError(t, EnsureDir(path))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmaster.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.ProfileStore().Save(ctx, profile.UserProfile{TotalQuizzes: 4, AverageScore: 61}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	p, err := s.ProfileStore().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, p.TotalQuizzes)
}

func TestSequenceIsSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "quiz-gen", Success: true}))
	rec := &QuizRecord{Config: quiz.DefaultConfig()}
	require.NoError(t, s.QuizRepo().Record(ctx, rec))
	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "grading", Success: true}))

	events, err := s.EventRepo().QueryLLMRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Greater(t, events[0].Sequence, rec.Sequence)
	assert.Less(t, events[1].Sequence, rec.Sequence)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"quiz-gen", "grading", "grading"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "gemini",
			Model:        "gemini-2.5-flash",
			Purpose:      purpose,
			InputTokens:  100 * (i + 1),
			OutputTokens: 10 * (i + 1),
			LatencyMs:    int64(200 * (i + 1)),
			Success:      i != 2,
			ErrorMessage: map[bool]string{true: "", false: "boom"}[i != 2],
			RequestBody:  "[user]\nhello",
			ResponseBody: `{"score":1}`,
		})
		require.NoError(t, err)
	}

	all, err := repo.QueryLLMRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "grading", all[0].Purpose, "newest first")
	assert.False(t, all[0].Success)
	assert.Equal(t, "boom", all[0].ErrorMessage)
	assert.WithinDuration(t, time.Now(), all[0].Timestamp, time.Minute)

	limited, err := repo.QueryLLMRequests(ctx, QueryOpts{Limit: 1, Purpose: "quiz-gen"})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 100, limited[0].InputTokens)

	got, err := repo.GetLLMRequest(ctx, limited[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "[user]\nhello", got.RequestBody)

	missing, err := repo.GetLLMRequest(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "grading", Calls: 2, InputTokens: 500, OutputTokens: 50, AvgLatencyMs: 500}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1)
	assert.Equal(t, 3, byModel[0].Calls)
	assert.Equal(t, 600, byModel[0].InputTokens)
}

func TestQuizRecords(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuizRepo()
	ctx := context.Background()

	correct := 1
	questions := []quiz.Question{
		{ID: "q1", Type: quiz.TypeMCQ, Topic: "Pointers", Text: "*p?", Options: []string{"5", "10"}, CorrectOptionIndex: &correct, ModelAnswer: "10"},
		{ID: "q2", Type: quiz.TypeShort, Topic: "Arrays", Text: "a[2]?", ModelAnswer: "0"},
	}
	answers := []quiz.UserAnswer{quiz.GradeChoice(questions[0], 1)}

	first := &QuizRecord{Config: quiz.DefaultConfig(), Questions: questions, Answers: answers, MeanScore: 50}
	require.NoError(t, repo.Record(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &QuizRecord{Config: quiz.Config{MCQCount: 1, Difficulty: quiz.DifficultyHard}, MeanScore: 100}
	require.NoError(t, repo.Record(ctx, second))

	list, err := repo.List(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, quiz.DifficultyHard, list[0].Config.Difficulty)

	got, err := repo.Get(ctx, first.ID[:8])
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, 1, *got.Questions[0].CorrectOptionIndex)

	res := got.Results()
	assert.Equal(t, 50.0, res.Mean)
	assert.True(t, res.Items[1].Skipped)

	none, err := repo.Get(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestProfileStore(t *testing.T) {
	s := openTestStore(t)
	ps := s.ProfileStore()
	ctx := context.Background()

	p, err := ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalQuizzes)
	assert.NotNil(t, p.WeakTopics)

	want := profile.UserProfile{
		WeakTopics:   map[string]int{"Pointers": 2, "Arrays": 1},
		TopicOrder:   []string{"Pointers", "Arrays"},
		TotalQuizzes: 3,
		AverageScore: 72.5,
	}
	require.NoError(t, ps.Save(ctx, want))

	got, err := ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, ps.Reset(ctx))
	got, err = ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalQuizzes)
}

func TestProfileStorePrunesSnapshots(t *testing.T) {
	s := openTestStore(t)
	ps := s.ProfileStore()
	ps.keep = 3
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, ps.Save(ctx, profile.UserProfile{TotalQuizzes: i}))
	}

	hist, err := ps.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, 5, hist[0].TotalQuizzes)
	assert.Equal(t, 3, hist[2].TotalQuizzes)
}
