package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotelavail/internal/config"
	"hotelavail/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	kindForm      = "form"
	kindRateLimit = "rate"
)

var errNilClient = errors.New("redis client is nil")

// rateLimitScript counts a hit and starts the window on the first one.
var rateLimitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisStateRepository keeps bot forms as JSON under "<prefix>:form:<user>"
// and rate-limit counters under "<prefix>:rate:<user>".
type RedisStateRepository struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisClient builds a client from cfg. It does not connect.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// NewRedisStateRepository stores forms for ttl after their last change. A
// zero ttl keeps them until cleared.
func NewRedisStateRepository(client *redis.Client, ttl time.Duration, prefix string) *RedisStateRepository {
	return &RedisStateRepository{client: client, ttl: ttl, prefix: prefix}
}

func (r *RedisStateRepository) key(kind string, userID int64) string {
	if r.prefix == "" {
		return fmt.Sprintf("%s:%d", kind, userID)
	}
	return fmt.Sprintf("%s:%s:%d", r.prefix, kind, userID)
}

// GetState returns nil when the user has no form. A form that no longer
// decodes is deleted and treated as absent.
func (r *RedisStateRepository) GetState(ctx context.Context, userID int64) (*models.UserState, error) {
	if r.client == nil {
		return nil, errNilClient
	}
	key := r.key(kindForm, userID)
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form from redis: %w", err)
	}

	var state models.UserState
	if err := json.Unmarshal(raw, &state); err != nil {
		if delErr := r.client.Del(ctx, key).Err(); delErr != nil {
			return nil, fmt.Errorf("failed to drop undecodable form: %w", delErr)
		}
		return nil, nil
	}
	return &state, nil
}

func (r *RedisStateRepository) SetState(ctx context.Context, state *models.UserState) error {
	if r.client == nil {
		return errNilClient
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal form: %w", err)
	}
	if err := r.client.Set(ctx, r.key(kindForm, state.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save form in redis: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) ClearState(ctx context.Context, userID int64) error {
	if r.client == nil {
		return errNilClient
	}
	if err := r.client.Del(ctx, r.key(kindForm, userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete form from redis: %w", err)
	}
	return nil
}

// CheckRateLimit allows limit hits per fixed window. The counter and its
// expiry are set in one script call.
func (r *RedisStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, errNilClient
	}
	count, err := rateLimitScript.Run(ctx, r.client, []string{r.key(kindRateLimit, userID)}, window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to count rate limit hit: %w", err)
	}
	return count <= int64(limit), nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return errNilClient
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
