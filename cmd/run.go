package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/cmaster/internal/config"
	"github.com/abhisek/cmaster/internal/grading"
	"github.com/abhisek/cmaster/internal/llm"
	"github.com/abhisek/cmaster/internal/logging"
	"github.com/abhisek/cmaster/internal/problemgen"
	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/profile/mongostore"
	"github.com/abhisek/cmaster/internal/profile/redisstore"
	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/session"
	"github.com/abhisek/cmaster/internal/store"
)

// errNoProvider is returned by the offline generator.
var errNoProvider = errors.New("no LLM provider configured")

// runtime holds everything a quiz-running command needs.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	provider llm.Provider
	profiles profile.Store
	session  *session.Session

	closers []func() error
}

// buildRuntime loads config, opens the store and the profile backend, and
// builds the LLM pipeline and the session. console selects the stderr log
// copy; the TUI keeps it off since it owns the terminal.
func buildRuntime(cmd *cobra.Command, console bool) (*runtime, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(cfg.Log, logging.Options{Console: console})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: logger, closers: []func() error{closeLog}}

	if err := rt.open(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) open(ctx context.Context) error {
	dbPath, err := resolveDBPath(rt.cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	rt.store = st
	rt.closers = append(rt.closers, st.Close)

	profiles, closeProfiles, err := openProfiles(ctx, rt.cfg.Profile, st)
	if err != nil {
		return err
	}
	rt.profiles = profiles
	if closeProfiles != nil {
		rt.closers = append(rt.closers, closeProfiles)
	}

	deps := session.Deps{
		Profiles:          profiles,
		History:           st.QuizRepo(),
		Logger:            rt.logger,
		GenerationTimeout: rt.cfg.Generation.Timeout,
	}

	llmCfg := rt.cfg.LLM
	if llmCfg.Discover() {
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), rt.logger)
		if err != nil {
			rt.logger.Warn("LLM provider unavailable", zap.Error(err))
		} else {
			rt.provider = provider
		}
	}

	if rt.provider != nil {
		deps.Generator = problemgen.New(rt.provider, generatorConfig(rt.cfg.Generation))
		deps.Grader = grading.New(rt.provider, graderConfig(rt.cfg.Grading), grading.WithLogger(rt.logger))
		rt.logger.Info("LLM provider ready",
			zap.String("provider", llmCfg.Provider),
			zap.String("model", rt.provider.ModelID()))
	} else {
		deps.Generator = offline{}
		deps.Grader = offline{}
	}

	sess, err := session.New(ctx, deps)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	rt.session = sess
	return nil
}

// requireProvider fails commands that cannot run without an LLM.
func (rt *runtime) requireProvider() error {
	if rt.provider == nil {
		return fmt.Errorf("%w: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY", errNoProvider)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i]()
	}
	rt.closers = nil
}

// openProfiles selects the profile backend. The returned close func may
// be nil.
func openProfiles(ctx context.Context, cfg config.ProfileConfig, st *store.Store) (profile.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		s, err := redisstore.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis profile store: %w", err)
		}
		return s, s.Close, nil
	case config.BackendMongo:
		s, disconnect, err := mongostore.Open(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, nil, fmt.Errorf("open mongo profile store: %w", err)
		}
		return s, func() error { return disconnect(context.Background()) }, nil
	case config.BackendMemory:
		return profile.NewMemoryStore(), nil, nil
	default:
		return st.ProfileStore(), nil, nil
	}
}

func generatorConfig(c config.GenerationConfig) problemgen.Config {
	out := problemgen.DefaultConfig()
	if c.MaxAttempts > 0 {
		out.MaxAttempts = c.MaxAttempts
	}
	return out
}

func graderConfig(c config.GradingConfig) grading.Config {
	out := grading.DefaultConfig()
	out.Timeout = c.Timeout
	if c.Concurrency > 0 {
		out.Concurrency = c.Concurrency
	}
	out.RatePerSecond = c.RatePerSecond
	if c.Burst > 0 {
		out.Burst = c.Burst
	}
	return out
}

// offline stands in for the LLM pipeline when no provider is configured.
// The TUI keeps quizzes disabled in that case; the profile and history
// views still work.
type offline struct{}

func (offline) Generate(context.Context, quiz.Config, []string) ([]quiz.Question, error) {
	return nil, errNoProvider
}

func (offline) Grade(_ context.Context, q quiz.Question, _ string) quiz.GradingResult {
	return grading.Fallback(q)
}

func (o offline) GradeAll(ctx context.Context, questions []quiz.Question, answers []quiz.UserAnswer) []quiz.UserAnswer {
	return grading.GradeAll(ctx, o, questions, answers, grading.DefaultConfig())
}
