package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/logging"
	"github.com/redis/go-redis/v9"
)

const (
	liveKeyPrefix = "c4:live:"
	liveIndexKey  = "c4:live:index"
)

// NewClient connects to Redis. It returns nil, nil when Redis is unreachable
// so the server can run without live snapshots.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		logging.Component("redis").Warn().Msg("REDIS_URL not set, live snapshots disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Component("redis").Warn().Err(err).Msg("could not connect to Redis, live snapshots disabled")
		client.Close()
		return nil, nil
	}

	logging.Component("redis").Info().Str("addr", addr).Msg("connected successfully")
	return client, nil
}

// LiveStore keeps JSON snapshots of in-progress games with a TTL.
// A store built on a nil client is disabled: writes are dropped and reads miss.
type LiveStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLiveStore(client *redis.Client, ttl time.Duration) *LiveStore {
	return &LiveStore{client: client, ttl: ttl}
}

func (s *LiveStore) Enabled() bool {
	return s != nil && s.client != nil
}

func liveKey(gameID string) string {
	return liveKeyPrefix + gameID
}

func (s *LiveStore) Save(ctx context.Context, game *domain.LiveGame) error {
	if !s.Enabled() {
		return nil
	}
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal live game: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, liveKey(game.GameID), data, s.ttl)
	pipe.ZAdd(ctx, liveIndexKey, redis.Z{Score: float64(game.UpdatedAt.Unix()), Member: game.GameID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save live game %s: %w", game.GameID, err)
	}
	return nil
}

// Load returns nil, nil when the snapshot does not exist or has expired.
func (s *LiveStore) Load(ctx context.Context, gameID string) (*domain.LiveGame, error) {
	if !s.Enabled() {
		return nil, nil
	}
	data, err := s.client.Get(ctx, liveKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load live game %s: %w", gameID, err)
	}

	var game domain.LiveGame
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal live game %s: %w", gameID, err)
	}
	return &game, nil
}

func (s *LiveStore) Delete(ctx context.Context, gameID string) error {
	if !s.Enabled() {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, liveKey(gameID))
	pipe.ZRem(ctx, liveIndexKey, gameID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete live game %s: %w", gameID, err)
	}
	return nil
}

// List returns the most recently updated snapshots. Expired entries are pruned from the index.
func (s *LiveStore) List(ctx context.Context, limit int) ([]domain.LiveGame, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	ids, err := s.client.ZRevRange(ctx, liveIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list live games: %w", err)
	}

	games := make([]domain.LiveGame, 0, len(ids))
	for _, id := range ids {
		game, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if game == nil {
			s.client.ZRem(ctx, liveIndexKey, id)
			continue
		}
		games = append(games, *game)
	}
	return games, nil
}
