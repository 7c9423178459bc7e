package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"aheyecare/internal/config"
)

// RedisStore keeps each cart as a hash at cart:{id}, field product id,
// value quantity. The key expires after the TTL without activity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}

func (s *RedisStore) Get(ctx context.Context, cartID string) (map[uint]int, error) {
	raw, err := s.client.HGetAll(ctx, cartKey(cartID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return decodeLines(raw), nil
}

func (s *RedisStore) Add(ctx context.Context, cartID string, productID uint) (map[uint]int, error) {
	key := cartKey(cartID)
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, strconv.FormatUint(uint64(productID), 10), 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	return s.Get(ctx, cartID)
}

func (s *RedisStore) Remove(ctx context.Context, cartID string, productID uint) (map[uint]int, error) {
	if err := s.client.HDel(ctx, cartKey(cartID), strconv.FormatUint(uint64(productID), 10)).Err(); err != nil {
		return nil, fmt.Errorf("failed to remove from cart: %w", err)
	}
	return s.Get(ctx, cartID)
}

func (s *RedisStore) Clear(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// decodeLines skips fields that are not a product id or a positive quantity.
func decodeLines(raw map[string]string) map[uint]int {
	lines := make(map[uint]int, len(raw))
	for field, value := range raw {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil || qty <= 0 {
			continue
		}
		lines[uint(id)] = qty
	}
	return lines
}
