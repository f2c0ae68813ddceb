package events

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	goredis "github.com/redis/go-redis/v9"
)

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
	Close() error
}

// RedisWriter publishes events on a redis pub/sub channel named after the topic.
type RedisWriter struct {
	rdb publisher
}

func NewRedisWriter(ctx context.Context, addr string) (*RedisWriter, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis writer requires an address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisWriter{rdb: rdb}, nil
}

func (r *RedisWriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	raw, err := e.MarshalJSON()
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, topic, raw).Err()
}

func (r *RedisWriter) Close(_ context.Context) error {
	return r.rdb.Close()
}
