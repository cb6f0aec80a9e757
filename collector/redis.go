package collector

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// defaultStream is the Redis stream name used when the target URL does not
// carry a ?stream= query parameter.
const defaultStream = "logs"

// streamMaxLen caps the stream so an unread collector cannot grow unbounded.
const streamMaxLen = 100_000

// redisShipper appends batches to a Redis stream via XADD.
type redisShipper struct {
	client *redis.Client
	stream string
}

func newRedisShipper(target *Target) (*redisShipper, error) {
	stream := target.URL.Query().Get("stream")
	if stream == "" {
		stream = defaultStream
	}

	// go-redis rejects query parameters it does not know, so the stream
	// name is stripped before the URL is handed over.
	u := *target.URL
	q := u.Query()
	q.Del("stream")
	u.RawQuery = q.Encode()

	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("parse redis collector URL: %w", err)
	}

	return &redisShipper{
		client: redis.NewClient(opts),
		stream: stream,
	}, nil
}

// Ship implements Shipper.
func (s *redisShipper) Ship(ctx context.Context, events [][]byte) error {
	pipe := s.client.Pipeline()
	for _, event := range events {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			MaxLen: streamMaxLen,
			Approx: true,
			Values: map[string]any{"event": string(event)},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ship log batch to redis stream %s: %w", s.stream, err)
	}
	return nil
}

// Close implements Shipper.
func (s *redisShipper) Close() error {
	return s.client.Close()
}
