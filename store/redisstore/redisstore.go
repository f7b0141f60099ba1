package redisstore

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Store keeps the access token under a single Redis key, letting several
// console processes share one login.
type Store struct {
	client *redis.Client
	key    string
}

// Open connects to Redis and checks the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return New(client, opts.Key), nil
}

// New wraps an existing client.
func New(client *redis.Client, key string) *Store {
	return &Store{client: client, key: key}
}

func (s *Store) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return token, nil
}

func (s *Store) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
