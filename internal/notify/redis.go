package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis pushes notifications onto a per-recipient list that the client polls.
// Old entries fall off via TTL and a length cap.
type Redis struct {
	rdb     *redis.Client
	ttl     time.Duration
	maxSize int64
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
	MaxSize  int64
}

func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 100
	}

	return &Redis{
		rdb:     rdb,
		ttl:     cfg.TTL,
		maxSize: maxSize,
	}
}

func (r *Redis) Notify(ctx context.Context, n Notification) error {
	var sb strings.Builder
	if err := json.NewEncoder(&sb).Encode(n); err != nil {
		return fmt.Errorf("serialize notification: %w", err)
	}

	key := notificationsKey(n.RecipientID)
	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, key, sb.String())
	pipe.LTrim(ctx, key, 0, r.maxSize-1)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notification to redis: %w", err)
	}

	return nil
}

// Pending returns the recipient's notifications, newest first.
func (r *Redis) Pending(ctx context.Context, recipientID string) ([]Notification, error) {
	raw, err := r.rdb.LRange(ctx, notificationsKey(recipientID), 0, r.maxSize-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read notifications from redis: %w", err)
	}

	notifications := make([]Notification, 0, len(raw))
	for _, item := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			return nil, fmt.Errorf("deserialize notification: %w", err)
		}

		notifications = append(notifications, n)
	}

	return notifications, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

func notificationsKey(recipientID string) string {
	return "notifications:" + recipientID
}
