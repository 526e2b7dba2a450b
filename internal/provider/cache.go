package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"intelliquiz-service/internal/logger"
)

// Cache is the minimal key/value surface the cached provider needs. Redis
// implements it in production; tests use an in-memory map.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache backs Cache with a Redis instance.
type RedisCache struct {
	rdb *goredis.Client
}

func NewRedisCache(rdb *goredis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedProvider short-circuits repeated identical generation requests. Cache
// failures fall through to the wrapped provider; a cache must never turn a
// servable request into an error.
type CachedProvider struct {
	inner QuestionProvider
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedProvider(inner QuestionProvider, cache Cache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   log.With("component", "question_cache"),
	}
}

func cacheKey(req Request) string {
	return fmt.Sprintf("quiz:questions:%s:%s:%s:%d", req.Category, req.Subcategory, req.Difficulty, req.Count)
}

func (p *CachedProvider) GenerateQuestions(ctx context.Context, req Request) ([]Question, error) {
	key := cacheKey(req)

	if raw, ok, err := p.cache.Get(ctx, key); err != nil {
		p.log.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		var questions []Question
		if err := json.Unmarshal(raw, &questions); err == nil {
			p.log.Info("served questions from cache", "key", key, "count", len(questions))
			return questions, nil
		}
		p.log.Warn("discarding unreadable cache entry", "key", key)
	}

	questions, err := p.inner.GenerateQuestions(ctx, req)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(questions); err == nil {
		if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
			p.log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return questions, nil
}

// ExplainAnswer is not cached here; explanations are cached per answer row.
func (p *CachedProvider) ExplainAnswer(ctx context.Context, req ExplainRequest) (string, error) {
	return p.inner.ExplainAnswer(ctx, req)
}
