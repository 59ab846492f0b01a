package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"sensor-analytics-api/models"

	"github.com/go-redis/redis/v8"
)

const DefaultChannel = "analytics:snapshots"

// Publisher pushes snapshot summaries to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, summary models.SnapshotSummary) error
	Close() error
}

// RedisPublisher sends summaries over Redis pub/sub. Nothing is stored.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

func NewRedisPublisher(ctx context.Context, addr, password, channel string, timeout time.Duration) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	if channel == "" {
		channel = DefaultChannel
	}

	return &RedisPublisher{
		client:  rdb,
		channel: channel,
		timeout: timeout,
	}, nil
}

func (rp *RedisPublisher) Channel() string {
	return rp.channel
}

func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

func (rp *RedisPublisher) Publish(ctx context.Context, summary models.SnapshotSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	if rp.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rp.timeout)
		defer cancel()
	}

	return rp.client.Publish(ctx, rp.channel, data).Err()
}

// Nop discards every summary. Used when no Redis address is configured.
type Nop struct{}

func (Nop) Publish(context.Context, models.SnapshotSummary) error { return nil }

func (Nop) Close() error { return nil }
