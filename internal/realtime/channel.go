package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kaiwacoach/kaiwa-backend/internal/logger"
)

// Event is the wire shape broadcast on every topic.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Channel is a fire-and-forget, at-most-once fan-out. Publish failures are
// the caller's to log; persistence is always the source of truth and clients
// reconcile through history reads.
type Channel interface {
	Publish(ctx context.Context, topic string, ev Event) error
}

// Subscriber is the read side, used by the SSE endpoint.
type Subscriber interface {
	Subscribe(ctx context.Context, topics ...string) (<-chan TopicEvent, func(), error)
}

// TopicEvent pairs a received event with the topic it arrived on.
type TopicEvent struct {
	Topic string
	Event Event
}

type RedisChannel struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisChannel(log *logger.Logger, rdb *goredis.Client) *RedisChannel {
	return &RedisChannel{
		log: log.With("component", "RedisChannel"),
		rdb: rdb,
	}
}

func Dial(addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (c *RedisChannel) Publish(ctx context.Context, topic string, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, topic, raw).Err()
}

// Subscribe opens one redis subscription over the given topics and forwards
// decoded events until ctx is done or the returned stop func is called.
func (c *RedisChannel) Subscribe(ctx context.Context, topics ...string) (<-chan TopicEvent, func(), error) {
	sub := c.rdb.Subscribe(ctx, topics...)
	// make sure the subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan TopicEvent, 32)
	done := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(done) }) }

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					c.log.Warn("bad realtime payload", "topic", m.Channel, "error", err)
					continue
				}
				select {
				case out <- TopicEvent{Topic: m.Channel, Event: ev}:
				default:
					// slow consumer: drop rather than block the pump
				}
			}
		}
	}()

	return out, stop, nil
}
