package shortlink

// Package shortlink implements one-time deep-link tokens: an external
// frontend stores a URL under a short token, and /start <token> in the bot
// consumes it exactly once. Entries live in Redis and expire on their own
// when never consumed.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dl:"

// ErrNotFound means the token never existed, expired, or was already used
var ErrNotFound = errors.New("link expired or invalid")

// Entry is the payload stored behind a token
type Entry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Store is the Redis-backed token table
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects the store to Redis at addr
func New(addr string, db int, ttl time.Duration) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl:    ttl,
	}
}

// Save stores the entry under a fresh token and returns the token
func (s *Store) Save(ctx context.Context, entry Entry) (string, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("encode entry: %w", err)
	}

	token, err := genToken()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, key(token), raw, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store link: %w", err)
	}
	return token, nil
}

// Consume fetches and deletes the entry for token. The deletion makes every
// token single-use even when two chats race on it.
func (s *Store) Consume(ctx context.Context, token string) (*Entry, error) {
	raw, err := s.client.GetDel(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch link: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, ErrNotFound
	}
	if entry.URL == "" {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// Close releases the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func key(token string) string {
	return keyPrefix + token
}

func genToken() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
