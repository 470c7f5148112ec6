package realtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
	redispkg "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// RedisTransport delivers push events over a per-business redis pub/sub
// channel. Reconnection after transient transport errors is go-redis's
// concern; this transport surfaces a dead subscription by closing its event
// channel.
type RedisTransport struct {
	client *redispkg.Client
	logg   *logger.Logger
}

// NewRedisTransport wires the transport over an established redis client.
func NewRedisTransport(client *redispkg.Client, logg *logger.Logger) (*RedisTransport, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &RedisTransport{client: client, logg: logg}, nil
}

// Open subscribes to the business's order channel. The credential gates the
// handshake: without one the subscription is refused before any dial.
func (t *RedisTransport) Open(ctx context.Context, credential, businessID string) (Conn, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("credential required for realtime handshake")
	}
	if strings.TrimSpace(businessID) == "" {
		return nil, fmt.Errorf("business id required for realtime channel")
	}

	channel := t.client.OrderChannelKey(businessID)
	sub, err := t.client.Subscribe(ctx, channel)
	if err != nil {
		return nil, err
	}

	conn := &redisConn{
		sub:    sub,
		events: make(chan Event),
	}
	go conn.pump(t.logg.WithChannel(ctx, channel), t.logg)
	return conn, nil
}

type redisConn struct {
	sub    *redis.PubSub
	events chan Event
}

func (c *redisConn) Events() <-chan Event {
	return c.events
}

// Close releases the subscription; closing it ends the message channel, so
// the pump drains out and closes the event channel on every exit path.
func (c *redisConn) Close() error {
	return c.sub.Close()
}

func (c *redisConn) pump(ctx context.Context, logg *logger.Logger) {
	defer close(c.events)

	for msg := range c.sub.Channel() {
		event, err := DecodeEvent([]byte(msg.Payload))
		if err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "undecodable realtime payload dropped")
			continue
		}
		c.events <- event
	}
}
