// Package events publishes child change notifications to Redis so other
// processes (a parent dashboard, a notifier) can refresh without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/royal-guard/royalguard/internal/domain"
)

// DefaultChannel is used when no channel is configured.
const DefaultChannel = "royalguard.child"

// RedisPublisher publishes change events as JSON on a Redis channel.
type RedisPublisher struct {
	log     *zap.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisPublisher connects to addr and verifies the connection with a
// ping bounded by 5 seconds.
func NewRedisPublisher(ctx context.Context, addr, channel string, log *zap.Logger) (*RedisPublisher, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if channel = strings.TrimSpace(channel); channel == "" {
		channel = DefaultChannel
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

	return &RedisPublisher{
		log:     log.With(zap.String("component", "events"), zap.String("channel", channel)),
		rdb:     rdb,
		channel: channel,
	}, nil
}

// Publish sends ev on the configured channel.
func (p *RedisPublisher) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	p.log.Debug("event published", zap.String("type", ev.Type), zap.String("child_id", ev.ChildID))
	return nil
}

// Subscribe forwards events from the channel to fn until ctx is done.
// Malformed payloads are logged and skipped.
func (p *RedisPublisher) Subscribe(ctx context.Context, fn func(domain.ChangeEvent)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				p.log.Warn("dropping malformed event", zap.Error(err))
				continue
			}
			fn(ev)
		}
	}
}

// Ping checks the Redis connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

// Nop discards events. It is used when no Redis address is configured.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, domain.ChangeEvent) error { return nil }

var (
	_ domain.ChangePublisher = (*RedisPublisher)(nil)
	_ domain.ChangePublisher = Nop{}
)
