package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courtside/scorekeeper/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// currentGameKey is the fixed key for the single current-game snapshot
	currentGameKey = "game:current"
)

// ErrSnapshotNotFound is returned when no snapshot has been saved yet
var ErrSnapshotNotFound = errors.New("game snapshot not found")

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveSnapshot persists the current-game snapshot to Redis
func (r *redisRepository) SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error {
	if input == nil || input.State == nil {
		return errors.New("input and state cannot be nil")
	}

	// Marshal the snapshot to JSON
	stateJSON, err := json.Marshal(input.State)
	if err != nil {
		return fmt.Errorf("failed to marshal game snapshot: %w", err)
	}

	if err := r.client.Set(ctx, currentGameKey, stateJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save game snapshot: %w", err)
	}

	return nil
}

// GetSnapshot retrieves the current-game snapshot from Redis
func (r *redisRepository) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.GameState, error) {
	stateJSON, err := r.client.Get(ctx, currentGameKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get game snapshot: %w", err)
	}

	// Unmarshal the snapshot from JSON
	var state models.GameState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game snapshot: %w", err)
	}

	return &state, nil
}

// DeleteSnapshot removes the current-game snapshot from Redis
func (r *redisRepository) DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error {
	if err := r.client.Del(ctx, currentGameKey).Err(); err != nil {
		return fmt.Errorf("failed to delete game snapshot: %w", err)
	}

	return nil
}
