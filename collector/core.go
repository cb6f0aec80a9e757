package collector

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/halcyonlabs/appboot/logger"
	"github.com/halcyonlabs/appboot/metrics"
)

const (
	defaultQueueSize     = 1024
	defaultBatchSize     = 64
	defaultFlushInterval = 2 * time.Second
	defaultShipTimeout   = 10 * time.Second
	syncTimeout          = 5 * time.Second
)

// Shipper delivers batches of encoded log events to the collector backend.
type Shipper interface {
	Ship(ctx context.Context, events [][]byte) error
	Close() error
}

// Core is a zapcore.Core that encodes records as JSON and ships them to a
// remote collector in batches from a background goroutine. When the queue is
// full, records are dropped and counted; the logging caller is never blocked.
type Core struct {
	zapcore.LevelEnabler

	enc    zapcore.Encoder
	state  *coreState
	fields []zapcore.Field
}

// coreState is shared between a Core and its With clones.
type coreState struct {
	stopOnce      sync.Once
	shipper       Shipper
	queue         chan []byte
	flushCh       chan chan struct{}
	stopCh        chan struct{}
	doneCh        chan struct{}
	batchSize     int
	flushInterval time.Duration
	shipTimeout   time.Duration
	sinks         *metrics.Sinks
}

// Option customizes a Core.
type Option func(*Core)

// WithQueueSize bounds the number of pending records.
func WithQueueSize(n int) Option {
	return func(c *Core) {
		if n > 0 {
			c.state.queue = make(chan []byte, n)
		}
	}
}

// WithBatchSize sets how many records are shipped per request.
func WithBatchSize(n int) Option {
	return func(c *Core) {
		if n > 0 {
			c.state.batchSize = n
		}
	}
}

// WithFlushInterval sets the idle flush period.
func WithFlushInterval(d time.Duration) Option {
	return func(c *Core) {
		if d > 0 {
			c.state.flushInterval = d
		}
	}
}

// WithMetrics attaches sink diagnostics counters.
func WithMetrics(s *metrics.Sinks) Option {
	return func(c *Core) { c.state.sinks = s }
}

// WithShipper overrides the scheme-derived shipper. Intended for tests.
func WithShipper(s Shipper) Option {
	return func(c *Core) { c.state.shipper = s }
}

// WithAPIKey sets the API key sent on HTTP ingestion. Ignored for Redis targets.
func WithAPIKey(key string) Option {
	return func(c *Core) {
		if hs, ok := c.state.shipper.(*httpShipper); ok {
			hs.apiKey = key
		}
	}
}

// NewCore creates a collector core for the given target, gated by enabler.
// The shipper is chosen from the target scheme: http/https POST newline-
// delimited JSON; redis/rediss append to a stream.
func NewCore(target *Target, enabler zapcore.LevelEnabler, opts ...Option) (*Core, error) {
	var shipper Shipper
	var err error
	if target.IsRedis() {
		shipper, err = newRedisShipper(target)
	} else {
		shipper = newHTTPShipper(target)
	}
	if err != nil {
		return nil, err
	}

	c := &Core{
		LevelEnabler: enabler,
		enc:          zapcore.NewJSONEncoder(logger.DefaultEncoderConfig()),
		state: &coreState{
			shipper:       shipper,
			queue:         make(chan []byte, defaultQueueSize),
			flushCh:       make(chan chan struct{}),
			stopCh:        make(chan struct{}),
			doneCh:        make(chan struct{}),
			batchSize:     defaultBatchSize,
			flushInterval: defaultFlushInterval,
			shipTimeout:   defaultShipTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.state.run()
	return c, nil
}

// With implements zapcore.Core.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	clone := &Core{
		LevelEnabler: c.LevelEnabler,
		enc:          c.enc.Clone(),
		state:        c.state,
	}
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return clone
}

// Check implements zapcore.Core.
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write encodes the record and enqueues it for shipping. A full queue drops
// the record rather than blocking.
func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	all := fields
	if len(c.fields) > 0 {
		all = append(append([]zapcore.Field{}, c.fields...), fields...)
	}

	buf, err := c.enc.EncodeEntry(ent, all)
	if err != nil {
		return err
	}

	event := make([]byte, buf.Len())
	copy(event, buf.Bytes())
	buf.Free()

	select {
	case c.state.queue <- event:
		c.state.sinks.Event(metrics.SinkCollector)
	default:
		c.state.sinks.Dropped(metrics.SinkCollector)
	}
	return nil
}

// Sync flushes pending records, waiting up to a bounded timeout.
func (c *Core) Sync() error {
	ack := make(chan struct{})
	select {
	case c.state.flushCh <- ack:
	case <-c.state.doneCh:
		return nil
	case <-time.After(syncTimeout):
		return nil
	}

	select {
	case <-ack:
	case <-time.After(syncTimeout):
	}
	return nil
}

// Close flushes pending records, stops the shipper goroutine, and closes the
// underlying transport.
func (c *Core) Close() error {
	c.state.stopOnce.Do(func() { close(c.state.stopCh) })
	<-c.state.doneCh
	return c.state.shipper.Close()
}

func (s *coreState) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([][]byte, 0, s.batchSize)

	ship := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.shipTimeout)
		if err := s.shipper.Ship(ctx, batch); err != nil {
			s.sinks.Dropped(metrics.SinkCollector)
		}
		cancel()
		batch = batch[:0]
	}

	drain := func() {
		for {
			select {
			case event := <-s.queue:
				batch = append(batch, event)
				if len(batch) >= s.batchSize {
					ship()
				}
			default:
				return
			}
		}
	}

	for {
		select {
		case event := <-s.queue:
			batch = append(batch, event)
			if len(batch) >= s.batchSize {
				ship()
			}
		case <-ticker.C:
			ship()
		case ack := <-s.flushCh:
			drain()
			ship()
			close(ack)
		case <-s.stopCh:
			drain()
			ship()
			return
		}
	}
}
