// Package metrics holds the Prometheus collectors shared by the quiz
// engine, the LLM layer and the local HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmaster_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cmaster_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "route"},
	)

	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmaster_llm_requests_total",
			Help: "LLM requests by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cmaster_llm_request_duration_seconds",
			Help:    "Latency of a single LLM provider call",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"purpose"},
	)

	LLMRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmaster_llm_retries_total",
			Help: "LLM calls retried after a transient failure",
		},
		[]string{"purpose", "reason"},
	)

	QuizzesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cmaster_quizzes_started_total",
		Help: "Quiz generations requested",
	})

	GenerationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cmaster_generation_failures_total",
		Help: "Quiz generations that returned the session to config",
	})

	GradingFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cmaster_grading_fallbacks_total",
		Help: "Free-text answers that received the fallback grade",
	})

	QuizzesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cmaster_quizzes_completed_total",
		Help: "Quizzes that reached the results phase",
	})

	QuizScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cmaster_quiz_mean_score",
		Help:    "Mean score of completed quizzes",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})
)

var initOnce sync.Once

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			LLMRequests,
			LLMLatency,
			LLMRetries,
			QuizzesStarted,
			GenerationFailures,
			GradingFallbacks,
			QuizzesCompleted,
			QuizScore,
		)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and durations labelled by the matched
// route template.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		RequestCounter.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
