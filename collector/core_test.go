package collector_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/halcyonlabs/appboot/collector"
)

// captureShipper records every shipped event.
type captureShipper struct {
	mu     sync.Mutex
	events []string
	closed bool
}

func (s *captureShipper) Ship(_ context.Context, events [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		s.events = append(s.events, string(e))
	}
	return nil
}

func (s *captureShipper) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureShipper) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.events...)
}

func newTestCore(t *testing.T, shipper collector.Shipper, opts ...collector.Option) *collector.Core {
	t.Helper()

	target, err := collector.Parse("http://collector:5341")
	require.NoError(t, err)

	opts = append([]collector.Option{collector.WithShipper(shipper)}, opts...)
	core, err := collector.NewCore(target, zapcore.DebugLevel, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })
	return core
}

func TestCore_ShipsEncodedRecords(t *testing.T) {
	t.Parallel()

	shipper := &captureShipper{}
	core := newTestCore(t, shipper)

	log := zap.New(core)
	log.Info("order accepted", zap.String("order_id", "o-42"))
	log.Warn("low stock")

	require.NoError(t, core.Sync())

	events := shipper.snapshot()
	require.Len(t, events, 2)
	assert.Contains(t, events[0], `"order accepted"`)
	assert.Contains(t, events[0], `"order_id":"o-42"`)
	assert.Contains(t, events[1], `"low stock"`)
	// Records are newline-delimited JSON.
	assert.True(t, strings.HasSuffix(events[0], "\n"))
}

func TestCore_WithFieldsAppearInEvents(t *testing.T) {
	t.Parallel()

	shipper := &captureShipper{}
	core := newTestCore(t, shipper)

	log := zap.New(core).With(zap.String("app", "billing"))
	log.Info("started")

	require.NoError(t, core.Sync())

	events := shipper.snapshot()
	require.Len(t, events, 1)
	assert.Contains(t, events[0], `"app":"billing"`)
}

func TestCore_LevelGate(t *testing.T) {
	t.Parallel()

	shipper := &captureShipper{}
	target, err := collector.Parse("http://collector:5341")
	require.NoError(t, err)

	core, err := collector.NewCore(target, zapcore.WarnLevel, collector.WithShipper(shipper))
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	log := zap.New(core)
	log.Info("filtered")
	log.Warn("kept")

	require.NoError(t, core.Sync())

	events := shipper.snapshot()
	require.Len(t, events, 1)
	assert.Contains(t, events[0], `"kept"`)
}

func TestCore_FlushIntervalShipsWithoutSync(t *testing.T) {
	t.Parallel()

	shipper := &captureShipper{}
	core := newTestCore(t, shipper, collector.WithFlushInterval(20*time.Millisecond))

	zap.New(core).Info("eventually shipped")

	require.Eventually(t, func() bool {
		return len(shipper.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCore_CloseFlushesAndClosesShipper(t *testing.T) {
	t.Parallel()

	shipper := &captureShipper{}
	core := newTestCore(t, shipper, collector.WithFlushInterval(time.Hour))

	zap.New(core).Info("pending at close")
	require.NoError(t, core.Close())

	assert.Len(t, shipper.snapshot(), 1)
	shipper.mu.Lock()
	defer shipper.mu.Unlock()
	assert.True(t, shipper.closed)
}
