package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cmaster/internal/profile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("CMASTER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CMASTER_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	s := New(client, "cmaster_test:"+uuid.NewString())
	t.Cleanup(func() {
		_ = s.Reset(context.Background())
		_ = s.Close()
	})
	return s
}

func TestNew_DefaultKey(t *testing.T) {
	s := New(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	assert.Equal(t, profile.StorageKey, s.key)
	_ = s.Close()
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalQuizzes)

	p := profile.UserProfile{
		WeakTopics:   map[string]int{"Pointers": 2},
		TopicOrder:   []string{"Pointers"},
		TotalQuizzes: 3,
		AverageScore: 72.5,
	}
	require.NoError(t, s.Save(ctx, p))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalQuizzes)
	assert.Equal(t, 72.5, got.AverageScore)
	assert.Equal(t, 2, got.WeakTopics["Pointers"])

	require.NoError(t, s.Reset(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalQuizzes)
}
