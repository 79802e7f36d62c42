package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"storefront-service/infra/utils"

	"github.com/redis/go-redis/v9"
)

const (
	fallbackWalletsKey = "site_config:wallets:fallback"
	purchaseMarkerTTL  = 24 * time.Hour
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

func InitRedis() *RedisClient {
	redisURL := utils.GetEnv("REDIS_URL", "redis://localhost:6379")

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Connected to Redis")

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}
}

func (r *RedisClient) Ping() error {
	return r.client.Ping(r.ctx).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// FallbackWallets returns the locally cached wallet list used when the
// primary config store could not take a wallet edit. An empty list is
// not an error.
func (r *RedisClient) FallbackWallets() ([]string, error) {
	data, err := r.client.Get(r.ctx, fallbackWalletsKey).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []string
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode fallback wallets: %w", err)
	}
	return entries, nil
}

func (r *RedisClient) SetFallbackWallets(entries []string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, fallbackWalletsKey, string(data), 0).Err()
}

func (r *RedisClient) ClearFallbackWallets() error {
	return r.client.Del(r.ctx, fallbackWalletsKey).Err()
}

func markerKey(sessionID, videoID string) string {
	return fmt.Sprintf("purchased:%s:%s", sessionID, videoID)
}

func (r *RedisClient) SetPurchaseMarker(sessionID, videoID string) error {
	return r.client.Set(r.ctx, markerKey(sessionID, videoID), "true", purchaseMarkerTTL).Err()
}

// ConsumePurchaseMarker reads and clears the marker in one step so the
// post-purchase reveal fires exactly once per purchase.
func (r *RedisClient) ConsumePurchaseMarker(sessionID, videoID string) (bool, error) {
	_, err := r.client.GetDel(r.ctx, markerKey(sessionID, videoID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
