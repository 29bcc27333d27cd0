// Package redisfeed broadcasts committed document changes over Redis pub/sub so every API
// instance can push them to its live subscribers.
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"partnerdelivery/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "partnerdelivery:changes:"

// Connect accepts either a redis:// URL or a bare host:port.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func channelFor(collection ports.Collection) string {
	return channelPrefix + string(collection)
}

// Feed implements ports.ChangeNotifier and ports.ChangeSubscriber.
type Feed struct {
	client *redis.Client
	logger *slog.Logger
}

func NewFeed(client *redis.Client, logger *slog.Logger) *Feed {
	return &Feed{client: client, logger: logger.With("component", "redis_feed")}
}

// Notify publishes every change on its collection channel in one pipeline.
func (f *Feed) Notify(ctx context.Context, changes []ports.Change) error {
	if len(changes) == 0 {
		return nil
	}
	pipe := f.client.Pipeline()
	for _, change := range changes {
		payload, err := json.Marshal(change)
		if err != nil {
			return fmt.Errorf("marshal change: %w", err)
		}
		pipe.Publish(ctx, channelFor(change.Collection), payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish changes: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so no change published
// after it returns is missed.
func (f *Feed) Subscribe(ctx context.Context, collections ...ports.Collection) (ports.ChangeStream, error) {
	if len(collections) == 0 {
		return nil, fmt.Errorf("subscribe: no collections")
	}
	channels := make([]string, 0, len(collections))
	for _, collection := range collections {
		channels = append(channels, channelFor(collection))
	}

	pubsub := f.client.Subscribe(ctx, channels...)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %v: %w", channels, err)
	}

	s := &stream{
		pubsub: pubsub,
		out:    make(chan ports.Change, 16),
		done:   make(chan struct{}),
		logger: f.logger,
	}
	go s.run(ctx)
	return s, nil
}

type stream struct {
	pubsub    *redis.PubSub
	out       chan ports.Change
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
	logger    *slog.Logger
}

func (s *stream) run(ctx context.Context) {
	defer close(s.out)
	in := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = s.Close()
			return
		case <-s.done:
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			var change ports.Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				s.logger.Warn("dropping malformed change", "channel", msg.Channel, "error", err)
				continue
			}
			select {
			case s.out <- change:
			case <-ctx.Done():
				_ = s.Close()
				return
			case <-s.done:
				return
			}
		}
	}
}

func (s *stream) Changes() <-chan ports.Change {
	return s.out
}

func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = s.pubsub.Close()
	})
	return s.closeErr
}
