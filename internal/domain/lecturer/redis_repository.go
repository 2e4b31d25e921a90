package lecturer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/danghamo/lecturer-service/internal/domain/shared"
)

const redisKeyPrefix = "lecturer:"

// RedisRepository implements Repository using Redis JSON documents
type RedisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis JSON-based lecturer repository
func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{
		client: client,
	}
}

func redisKey(id ID) string {
	return redisKeyPrefix + id.String()
}

// Save writes the whole document with JSON.SET; an existing document is replaced
func (r *RedisRepository) Save(ctx context.Context, l *Lecturer) (*Lecturer, error) {
	if l == nil {
		return nil, shared.ErrInvalidInput("lecturer cannot be nil")
	}
	if l.ID.IsEmpty() {
		return nil, shared.ErrInvalidInput("lecturer id cannot be empty")
	}

	stored := l.Clone()
	stored.normalize()

	jsonBytes, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize lecturer: %w", err)
	}

	if err := r.client.JSONSet(ctx, redisKey(stored.ID), "$", string(jsonBytes)).Err(); err != nil {
		return nil, shared.WrapStorageError(err, "redis", "save")
	}

	return stored, nil
}

// FindAll scans lecturer keys and loads each document
func (r *RedisRepository) FindAll(ctx context.Context) ([]*Lecturer, error) {
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()

	lecturers := make([]*Lecturer, 0)
	for iter.Next(ctx) {
		l, err := r.get(ctx, iter.Val())
		if err != nil {
			return nil, err
		}
		// Deleted between SCAN and JSON.GET
		if l == nil {
			continue
		}
		lecturers = append(lecturers, l)
	}

	if err := iter.Err(); err != nil {
		return nil, shared.WrapStorageError(err, "redis", "scan")
	}

	return lecturers, nil
}

// FindByID retrieves a lecturer with a single JSON.GET
func (r *RedisRepository) FindByID(ctx context.Context, id ID) (*Lecturer, error) {
	if id.IsEmpty() {
		return nil, nil
	}
	return r.get(ctx, redisKey(id))
}

// DeleteByID removes the document; DEL on a missing key is not an error
func (r *RedisRepository) DeleteByID(ctx context.Context, id ID) error {
	if id.IsEmpty() {
		return nil
	}
	if err := r.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return shared.WrapStorageError(err, "redis", "delete")
	}
	return nil
}

// HealthCheck pings the Redis server
func (r *RedisRepository) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// get loads one document. JSON.GET with a "$" path answers with a JSON array.
func (r *RedisRepository) get(ctx context.Context, key string) (*Lecturer, error) {
	jsonData, err := r.client.JSONGet(ctx, key, "$").Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.WrapStorageError(err, "redis", "get")
	}

	if jsonData == "" || jsonData == "null" {
		return nil, nil
	}

	var jsonArray []json.RawMessage
	if err := json.Unmarshal([]byte(jsonData), &jsonArray); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array from Redis: %w", err)
	}

	if len(jsonArray) == 0 {
		return nil, nil
	}

	l := &Lecturer{}
	if err := json.Unmarshal(jsonArray[0], l); err != nil {
		return nil, fmt.Errorf("failed to deserialize lecturer: %w", err)
	}
	l.normalize()

	return l, nil
}
