package detail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courtside/scorekeeper/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	detailKeyPrefix = "detail:"
	detailIndexKey  = "details:index"
)

// Config holds configuration for the Redis detail repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed detail repository
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

// detailKey builds the storage key for an event. Events are keyed by their
// millisecond timestamp; colliding timestamps overwrite.
func detailKey(d *models.Detail) string {
	return fmt.Sprintf("%s%d", detailKeyPrefix, d.Timestamp.UnixMilli())
}

// AppendDetail adds a detail event to the ledger
func (r *redisRepository) AppendDetail(ctx context.Context, input *AppendDetailInput) error {
	if input == nil || input.Detail == nil {
		return errors.New("input and detail cannot be nil")
	}

	record := input.Detail

	if record.Timestamp.IsZero() {
		return errors.New("detail timestamp cannot be zero")
	}

	// Marshal the event to JSON
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal detail: %w", err)
	}

	// Create a Redis transaction
	pipe := r.client.Pipeline()

	// Store the event
	key := detailKey(record)
	pipe.Set(ctx, key, recordJSON, 0)

	// Add to the timestamp-ordered index
	pipe.ZAdd(ctx, detailIndexKey, redis.Z{
		Score:  float64(record.Timestamp.UnixMilli()),
		Member: key,
	})

	// Execute the transaction
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to append detail: %w", err)
	}

	return nil
}

// GetAllDetails retrieves every detail event from Redis
func (r *redisRepository) GetAllDetails(ctx context.Context, input *GetAllDetailsInput) (*GetAllDetailsOutput, error) {
	// Get all event keys from the index
	keys, err := r.client.ZRange(ctx, detailIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get detail keys: %w", err)
	}

	// If there are no events, return an empty slice
	if len(keys) == 0 {
		return &GetAllDetailsOutput{
			Details: []*models.Detail{},
		}, nil
	}

	// Get all events in parallel using a pipeline
	pipe := r.client.Pipeline()
	detailCommands := make(map[string]*redis.StringCmd)

	for _, key := range keys {
		detailCommands[key] = pipe.Get(ctx, key)
	}

	// Execute the pipeline
	_, err = pipe.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get details: %w", err)
	}

	// Process the results
	details := make([]*models.Detail, 0, len(keys))
	for key, cmd := range detailCommands {
		recordJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Event was removed between reading the index and fetching it
				continue
			}
			return nil, fmt.Errorf("failed to get detail %s: %w", key, err)
		}

		var record models.Detail
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal detail %s: %w", key, err)
		}

		details = append(details, &record)
	}

	return &GetAllDetailsOutput{
		Details: details,
	}, nil
}

// ClearDetails removes every detail event from Redis
func (r *redisRepository) ClearDetails(ctx context.Context, input *ClearDetailsInput) error {
	// Get all event keys from the index
	keys, err := r.client.ZRange(ctx, detailIndexKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to get detail keys: %w", err)
	}

	// Create a Redis transaction
	pipe := r.client.Pipeline()

	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, detailIndexKey)

	// Execute the transaction
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear details: %w", err)
	}

	return nil
}
