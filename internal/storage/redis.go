package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/stats"
)

// RedisStore keeps all data under a key prefix in a shared Redis instance.
//
// Keys:
//
//	<prefix>:game:<player>    JSON SerializedGame
//	<prefix>:best:<player>    integer
//	<prefix>:stats:<player>   JSON stats.Stats
//	<prefix>:score:<id>       JSON ScoreEntry
//	<prefix>:scores           sorted set of score ids by score
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// saveMaxScript stores ARGV[1] in KEYS[1] only if it is larger than the current value.
var saveMaxScript = redis.NewScript(`
	local cur = tonumber(redis.call("get", KEYS[1]) or "0")
	local score = tonumber(ARGV[1])
	if score > cur then
		redis.call("set", KEYS[1], ARGV[1])
	end
	return 1
`)

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("storage: cannot connect to redis at %s: %w", cfg.Addr, err)
	}

	return NewRedisStore(rdb, cfg.Prefix), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "t2048"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(parts ...string) string {
	k := r.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// setJSON stores value as JSON with no expiration.
func (r *RedisStore) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return r.client.Set(ctx, key, data, 0).Err()
}

// getJSON loads key into dest. It reports false if the key does not exist.
func (r *RedisStore) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return true, nil
}

// LoadGameState implements Store.
func (r *RedisStore) LoadGameState(ctx context.Context, player string) (*t2048.SerializedGame, error) {
	var game t2048.SerializedGame
	ok, err := r.getJSON(ctx, r.key("game", player), &game)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load game state: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &game, nil
}

// SaveGameState implements Store.
func (r *RedisStore) SaveGameState(ctx context.Context, player string, game *t2048.SerializedGame) error {
	if err := r.setJSON(ctx, r.key("game", player), game); err != nil {
		return fmt.Errorf("storage: cannot save game state: %w", err)
	}
	return nil
}

// ClearGameState implements Store.
func (r *RedisStore) ClearGameState(ctx context.Context, player string) error {
	if err := r.client.Del(ctx, r.key("game", player)).Err(); err != nil {
		return fmt.Errorf("storage: cannot clear game state: %w", err)
	}
	return nil
}

// BestScore implements Store.
func (r *RedisStore) BestScore(ctx context.Context, player string) (int, error) {
	score, err := r.client.Get(ctx, r.key("best", player)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return score, nil
}

// SaveBestScore implements Store.
func (r *RedisStore) SaveBestScore(ctx context.Context, player string, score int) error {
	err := saveMaxScript.Run(ctx, r.client, []string{r.key("best", player)}, strconv.Itoa(score)).Err()
	if err != nil {
		return fmt.Errorf("storage: cannot save best score: %w", err)
	}
	return nil
}

// Stats implements Store.
func (r *RedisStore) Stats(ctx context.Context, player string) (stats.Stats, error) {
	var st stats.Stats
	if _, err := r.getJSON(ctx, r.key("stats", player), &st); err != nil {
		return stats.Stats{}, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	return st, nil
}

// SaveStats implements Store.
func (r *RedisStore) SaveStats(ctx context.Context, player string, st stats.Stats) error {
	if err := r.setJSON(ctx, r.key("stats", player), st); err != nil {
		return fmt.Errorf("storage: cannot save stats: %w", err)
	}
	return nil
}

// RecordScore implements Store. A missing ID or timestamp is filled in.
func (r *RedisStore) RecordScore(ctx context.Context, entry ScoreEntry) error {
	entry = withDefaults(entry)
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("storage: cannot encode score: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key("score", entry.ID), data, 0)
		pipe.ZAdd(ctx, r.key("scores"), redis.Z{Score: float64(entry.Score), Member: entry.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}
	return nil
}

// TopScores implements Store.
func (r *RedisStore) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	ids, err := r.client.ZRevRange(ctx, r.key("scores"), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key("score", id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load scores: %w", err)
	}

	entries := make([]ScoreEntry, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // score key expired or was deleted
		}
		var e ScoreEntry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("storage: cannot decode score: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
