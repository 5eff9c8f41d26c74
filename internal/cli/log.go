package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowdeck/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 3 formats (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks forwards library events to the CLI logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.SnapHooks    = logHooks{}
	_ observability.PersistHooks = logHooks{}
	_ observability.StoreHooks   = logHooks{}
	_ observability.CacheHooks   = logHooks{}
)

// registerHooks routes every hook family to l.
func registerHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("events")}
	observability.SetSnapHooks(h)
	observability.SetPersistHooks(h)
	observability.SetStoreHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnSnap(action, connector, grip, target string) {
	h.logger.Debug("snap", "action", action, "connector", connector, "grip", grip, "target", target)
}

func (h logHooks) OnFlush(recorded int) {
	h.logger.Debug("snap actions flushed", "recorded", recorded)
}

func (h logHooks) OnSerialize(records int, d time.Duration) {
	h.logger.Debug("serialized", "records", records, "duration", d)
}

func (h logHooks) OnDeserialize(records int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("deserialize failed", "records", records, "err", err)
		return
	}
	h.logger.Debug("deserialized", "records", records, "duration", d)
}

func (h logHooks) OnSave(_ context.Context, backend, name string, size int, d time.Duration, err error) {
	h.logger.Debug("store save", "backend", backend, "name", name, "bytes", size, "duration", d, "err", err)
}

func (h logHooks) OnLoad(_ context.Context, backend, name string, d time.Duration, err error) {
	h.logger.Debug("store load", "backend", backend, "name", name, "duration", d, "err", err)
}

func (h logHooks) OnRetry(_ context.Context, backend string, attempt int, err error) {
	h.logger.Warn("store unreachable, retrying", "backend", backend, "attempt", attempt, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
