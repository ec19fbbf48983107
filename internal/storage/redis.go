package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/taskpilot/taskpilot/internal/models"
)

const (
	redisTasksKey  = "taskpilot:tasks"
	redisEventsKey = "taskpilot:events"
)

// RedisStore persists tasks and events as JSON values under fixed keys.
// Each collection is a single value, so a save is one atomic SET.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping verifies the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// LoadTasks loads the task list; a missing key is an empty list
func (s *RedisStore) LoadTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.loadKey(ctx, redisTasksKey, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTasks writes the full task list
func (s *RedisStore) SaveTasks(ctx context.Context, tasks []models.Task) error {
	return s.saveKey(ctx, redisTasksKey, tasks)
}

// LoadEvents loads the calendar; a missing key is an empty calendar
func (s *RedisStore) LoadEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	if err := s.loadKey(ctx, redisEventsKey, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SaveEvents writes the full calendar
func (s *RedisStore) SaveEvents(ctx context.Context, events []models.CalendarEvent) error {
	return s.saveKey(ctx, redisEventsKey, events)
}

func (s *RedisStore) loadKey(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) saveKey(ctx context.Context, key string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
