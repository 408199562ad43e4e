// Package redisstore keeps the profile as one JSON value in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/cmaster/internal/profile"
)

// Store implements profile.Store on a Redis key.
type Store struct {
	client *redis.Client
	key    string
}

// New returns a Store using client. An empty key means profile.StorageKey.
func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = profile.StorageKey
	}
	return &Store{client: client, key: key}
}

// Open connects to addr and pings it.
func Open(ctx context.Context, addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return New(client, ""), nil
}

func (s *Store) Load(ctx context.Context) (profile.UserProfile, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return profile.New(), nil
	}
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return profile.Decode(data)
}

func (s *Store) Save(ctx context.Context, p profile.UserProfile) error {
	data, err := profile.Encode(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}
