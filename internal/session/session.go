package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wordageddon/wordageddon/internal/domain"
)

const (
	// Active plays expire if untouched for this long
	playExpiration = 24 * time.Hour

	// Redis key prefixes
	playKeyPrefix = "play:"
	userKeyPrefix = "playbyuser:"
)

// Manager parks in-progress plays in Redis between answer submissions, so no
// in-process state survives a request. Completed plays are removed here and
// live on only in the relational store.
type Manager struct {
	redis *redis.Client
}

// NewManager creates a new play-state manager
func NewManager(redis *redis.Client) *Manager {
	return &Manager{redis: redis}
}

// StorePlay stores a play and refreshes its TTL
func (m *Manager) StorePlay(ctx context.Context, play *domain.Play) error {
	data, err := json.Marshal(play)
	if err != nil {
		return fmt.Errorf("failed to marshal play: %w", err)
	}

	pipe := m.redis.TxPipeline()
	pipe.Set(ctx, playKeyPrefix+play.ID, data, playExpiration)
	pipe.Set(ctx, userKeyPrefix+play.UserID, play.ID, playExpiration)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store play: %w", err)
	}
	return nil
}

// GetPlay retrieves a play by ID
func (m *Manager) GetPlay(ctx context.Context, playID string) (*domain.Play, error) {
	data, err := m.redis.Get(ctx, playKeyPrefix+playID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrPlayNotFound
		}
		return nil, fmt.Errorf("failed to get play: %w", err)
	}

	play := &domain.Play{}
	if err := json.Unmarshal(data, play); err != nil {
		return nil, fmt.Errorf("failed to unmarshal play: %w", err)
	}
	return play, nil
}

// GetPlayByUser retrieves a user's current play, if any
func (m *Manager) GetPlayByUser(ctx context.Context, userID string) (*domain.Play, error) {
	playID, err := m.redis.Get(ctx, userKeyPrefix+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrPlayNotFound
		}
		return nil, fmt.Errorf("failed to look up play for user: %w", err)
	}
	return m.GetPlay(ctx, playID)
}

// DeletePlay removes a play from Redis
func (m *Manager) DeletePlay(ctx context.Context, play *domain.Play) error {
	pipe := m.redis.TxPipeline()
	pipe.Del(ctx, playKeyPrefix+play.ID)
	pipe.Del(ctx, userKeyPrefix+play.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete play: %w", err)
	}
	return nil
}

// CountActivePlays returns the number of parked plays
func (m *Manager) CountActivePlays(ctx context.Context) (int, error) {
	var count int
	iter := m.redis.Scan(ctx, 0, playKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan plays: %w", err)
	}
	return count, nil
}
