package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/session"
	"github.com/abhisek/cmaster/internal/store"
	"github.com/abhisek/cmaster/internal/topics"
)

type stubGenerator struct{ questions []quiz.Question }

func (g stubGenerator) Generate(context.Context, quiz.Config, []string) ([]quiz.Question, error) {
	return g.questions, nil
}

type stubGrader struct{}

func (stubGrader) GradeAll(_ context.Context, questions []quiz.Question, answers []quiz.UserAnswer) []quiz.UserAnswer {
	out := make([]quiz.UserAnswer, len(answers))
	for i, a := range answers {
		if a.AIGraded {
			out[i] = a
			continue
		}
		out[i] = a.Apply(quiz.GradingResult{Score: 50, Feedback: "partial", ModelAnswer: "20"})
	}
	return out
}

type stubHistory struct{ records []store.QuizRecord }

func (h *stubHistory) List(_ context.Context, opts store.QueryOpts) ([]store.QuizRecord, error) {
	if opts.Limit > 0 && len(h.records) > opts.Limit {
		return h.records[:opts.Limit], nil
	}
	return h.records, nil
}

func (h *stubHistory) Get(_ context.Context, id string) (*store.QuizRecord, error) {
	for _, r := range h.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (h *stubHistory) Record(_ context.Context, rec *store.QuizRecord) error {
	rec.Timestamp = time.Now()
	h.records = append([]store.QuizRecord{*rec}, h.records...)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubHistory) {
	t.Helper()
	idx := 0
	history := &stubHistory{}
	sess, err := session.New(context.Background(), session.Deps{
		Generator: stubGenerator{questions: []quiz.Question{
			{ID: "q1", Type: quiz.TypeMCQ, Topic: topics.Arrays, Text: "First index of an array?", Options: []string{"0", "1"}, CorrectOptionIndex: &idx, ModelAnswer: "0"},
			{ID: "q2", Type: quiz.TypeShort, Topic: topics.ArithmeticExpressions, Text: "24/5*5?", ModelAnswer: "20"},
		}},
		Grader:   stubGrader{},
		Profiles: profile.NewMemoryStore(),
		History:  history,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(New(context.Background(), sess, history, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, history
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent && !strings.HasPrefix(path, "/metrics") {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func waitForPhase(t *testing.T, srv *httptest.Server, phase string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, snap := do(t, srv, http.MethodGet, "/api/v1/quiz", "")
		if snap["phase"] == phase {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s, last snapshot %v", phase, snap)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHealthAndTopics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, err := srv.Client().Get(srv.URL + "/api/v1/topics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []topicView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, len(topics.Names()))
	assert.Equal(t, topics.ArithmeticExpressions, list[0].Name)
}

func TestQuizFlow(t *testing.T) {
	srv, history := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/quiz", `{"mcqCount":1,"shortCount":1,"longCount":0,"difficulty":"easy"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	snap := waitForPhase(t, srv, "quiz")
	question := snap["question"].(map[string]any)
	assert.Equal(t, "q1", question["id"])
	assert.NotContains(t, question, "correctOptionIndex")

	resp, body := do(t, srv, http.MethodPost, "/api/v1/quiz/next", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz/select", `{"option":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz/next", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz/select", `{"option":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "short answer rejects an option")

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz/text", `{"text":"24"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz/next", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap = waitForPhase(t, srv, "results")
	results := snap["results"].(map[string]any)
	assert.Equal(t, 75.0, results["mean"])

	_, body = do(t, srv, http.MethodGet, "/api/v1/profile", "")
	p := body["profile"].(map[string]any)
	assert.Equal(t, 1.0, p["totalQuizzes"])

	require.Len(t, history.records, 1)
	resp, body = do(t, srv, http.MethodGet, "/api/v1/history/"+history.records[0].ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.0, body["questions"])

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz/retry", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	waitForPhase(t, srv, "config")
}

func TestStartRejections(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/quiz", `{"mcqCount":0,"shortCount":0,"longCount":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz/retry", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestStopEarly(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/quiz", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	waitForPhase(t, srv, "quiz")

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz/stop", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := waitForPhase(t, srv, "results")
	results := snap["results"].(map[string]any)
	assert.Equal(t, 0.0, results["mean"])
}

func TestResetProfile(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, srv, http.MethodDelete, "/api/v1/profile", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/quiz", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	waitForPhase(t, srv, "quiz")

	resp, _ = do(t, srv, http.MethodDelete, "/api/v1/profile", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHistoryList(t *testing.T) {
	srv, history := newTestServer(t)
	for _, id := range []string{"a", "b", "c"} {
		_ = history.Record(context.Background(), &store.QuizRecord{ID: id, MeanScore: 50})
	}

	resp, err := srv.Client().Get(srv.URL + "/api/v1/history?limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []historyView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID)

	resp2, _ := do(t, srv, http.MethodGet, "/api/v1/history?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	resp3, _ := do(t, srv, http.MethodGet, "/api/v1/history/zzz", "")
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodGet, "/healthz", "")

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
