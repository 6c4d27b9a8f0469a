// Package redis provides a Redis-backed Store for hosts that already
// run a Redis instance and want the collection document kept there.
package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// Connect dials Redis from a URL and verifies the connection before
// the client is handed to a Store.
func Connect(url, password string, db int) (*redislib.Client, error) {
	opts, err := redislib.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}

	client := redislib.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Store keeps each document under a prefixed Redis string key.
type Store struct {
	client *redislib.Client
	prefix string
}

// NewStore wraps an existing Redis client.
func NewStore(client *redislib.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "listline:"
	}
	return &Store{
		client: client,
		prefix: prefix,
	}
}

func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	result, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == redislib.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return result, true, nil
}

func (s *Store) Write(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *Store) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *Store) IdentityTag() string {
	return fmt.Sprintf("redis:%s", s.client.Options().Addr)
}

func (s *Store) key(key string) string {
	return s.prefix + key
}
