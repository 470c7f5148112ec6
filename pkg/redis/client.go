package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Client wraps the redis connection used as the realtime event transport.
type Client struct {
	raw    *redis.Client
	prefix string
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New bootstraps a Redis client from the realtime configuration and verifies
// connectivity.
func New(ctx context.Context, cfg config.RealtimeConfig) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	prefix := strings.TrimSpace(cfg.ChannelPrefix)
	if prefix == "" {
		prefix = "busmgr:orders"
	}
	return &Client{raw: raw, prefix: prefix}, nil
}

func optionsFromConfig(cfg config.RealtimeConfig) (*redis.Options, error) {
	if cfg.RedisURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	return opts, nil
}

// OrderChannelKey returns the namespaced pub/sub channel for a business.
func (c *Client) OrderChannelKey(businessID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, strings.TrimSpace(businessID))
}

// Subscribe opens a pub/sub subscription on the given channel. The caller
// owns the returned subscription and must close it.
func (c *Client) Subscribe(ctx context.Context, channel string) (*redis.PubSub, error) {
	if c.raw == nil {
		return nil, errors.New("redis client not initialized")
	}
	sub := c.raw.Subscribe(ctx, channel)
	// Receive forces the SUBSCRIBE round trip so connection failures surface
	// here instead of on the first read.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}
	return sub, nil
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.raw == nil {
		return errors.New("redis client not initialized")
	}
	return c.raw.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}
