package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/retrocade/retrocade/internal/model"
)

var (
	ErrTokenExpired = errors.New("token has expired")
)

// TokenRepository holds the set of live admin bearer tokens.
type TokenRepository interface {
	Create(token *model.Token) error
	Exists(value string) (bool, error)
	Delete(value string) error
}

// memoryTokenRepository keeps tokens for the process lifetime, bounded by
// capacity (oldest evicted first) and ttl.
type memoryTokenRepository struct {
	tokens *expirable.LRU[string, model.Token]
}

func NewMemoryTokenRepository(capacity int, ttl time.Duration) TokenRepository {
	return &memoryTokenRepository{
		tokens: expirable.NewLRU[string, model.Token](capacity, nil, ttl),
	}
}

func (r *memoryTokenRepository) Create(token *model.Token) error {
	if token.IsExpired() {
		return ErrTokenExpired
	}
	r.tokens.Add(token.Value, *token)
	return nil
}

func (r *memoryTokenRepository) Exists(value string) (bool, error) {
	token, ok := r.tokens.Get(value)
	if !ok {
		return false, nil
	}
	if token.IsExpired() {
		r.tokens.Remove(value)
		return false, nil
	}
	return true, nil
}

func (r *memoryTokenRepository) Delete(value string) error {
	r.tokens.Remove(value)
	return nil
}

const redisTokenPrefix = "retrocade:token:"

// redisTokenRepository shares tokens between replicas.
type redisTokenRepository struct {
	client *redis.Client
}

func NewRedisTokenRepository(url string) (TokenRepository, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &redisTokenRepository{client: client}, nil
}

func (r *redisTokenRepository) Create(token *model.Token) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return ErrTokenExpired
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.client.Set(ctx, redisTokenPrefix+token.Value, token.IssuedAt.Unix(), ttl).Err()
}

func (r *redisTokenRepository) Exists(value string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := r.client.Exists(ctx, redisTokenPrefix+value).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisTokenRepository) Delete(value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.client.Del(ctx, redisTokenPrefix+value).Err()
}

func (r *redisTokenRepository) Close() error {
	return r.client.Close()
}
