// Package redis provides the Redis-backed conversation history provider.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/infrastructure/config"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultMaxTurns = 50

// HistoryRepository implements the history provider on a capped Redis list
// per user. Newest turns sit at the tail; the list is trimmed on append.
type HistoryRepository struct {
	client   *redis.Client
	maxTurns int
	logger   *zap.Logger
}

// NewClient builds a Redis client from configuration.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.Database,
		DialTimeout: cfg.DialTimeout,
	})
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(client *redis.Client, cfg config.RedisConfig, logger *zap.Logger) outbound.HistoryProvider {
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &HistoryRepository{
		client:   client,
		maxTurns: maxTurns,
		logger:   logger.Named("history"),
	}
}

// RecentTurns returns up to limit turns for a user, oldest first.
func (r *HistoryRepository) RecentTurns(ctx context.Context, userID uuid.UUID, limit int) ([]outbound.ChatTurn, error) {
	if limit <= 0 {
		return nil, nil
	}

	raw, err := r.client.LRange(ctx, historyKey(userID), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	turns := make([]outbound.ChatTurn, 0, len(raw))
	for _, item := range raw {
		var turn outbound.ChatTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			r.logger.Warn("skipping malformed history entry", zap.Error(err))
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// AppendTurn records a turn and trims the list to the configured cap.
func (r *HistoryRepository) AppendTurn(ctx context.Context, userID uuid.UUID, turn outbound.ChatTurn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to serialize history turn: %w", err)
	}

	key := historyKey(userID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, int64(-r.maxTurns), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append history turn: %w", err)
	}
	return nil
}

func historyKey(userID uuid.UUID) string {
	return "history:" + userID.String()
}
