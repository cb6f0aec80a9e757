package bootstrap

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/halcyonlabs/appboot/collector"
	apperrors "github.com/halcyonlabs/appboot/errors"
	"github.com/halcyonlabs/appboot/logger"
	"github.com/halcyonlabs/appboot/metrics"
	"github.com/halcyonlabs/appboot/rolling"
)

// Environment variables consumed by the startup phase. Nothing else is read
// from the environment; full configuration is not available yet.
const (
	// EnvStartupLogToFile enables the startup log file when it parses as a
	// boolean true.
	EnvStartupLogToFile = "STARTUP_LOG_TO_FILE"
	// EnvStartupLogFile is an optional explicit startup log file path.
	// ${VAR} references are expanded against the supplied environment.
	EnvStartupLogFile = "STARTUP_LOG_FILE"
	// EnvStartupCollectorURL is an optional remote collector URL for the
	// startup phase. Non-absolute or unparsable values disable the
	// collector sink silently.
	EnvStartupCollectorURL = "STARTUP_LOG_COLLECTOR_URL"
)

// defaultStartupLogName is the file used when file logging is enabled but no
// explicit path is set; it is resolved through StartupOptions.BasePath.
const defaultStartupLogName = "startup.log"

// StartupOptions carries everything InitStartup needs. BasePath is required;
// the rest is optional.
type StartupOptions struct {
	// BasePath maps a relative name to an absolute path under the
	// application's base directory.
	BasePath func(name string) string
	// Env is the environment snapshot to read. Use EnvFromOS for the real
	// process environment.
	Env map[string]string
	// Handlers are applied to the in-progress configuration in the order
	// supplied. Use OrderHandlers first when they declare priorities.
	Handlers []StartupHandler
	// Buffer, when set, is flushed into the new logger before it is returned.
	Buffer *Prelog
	// Switch is the level switch the logger binds to. A new switch at debug
	// is created when nil; the startup phase runs at debug.
	Switch *logger.LevelSwitch
	// Metrics receives sink diagnostics counters when set.
	Metrics *metrics.Sinks
}

// EnvFromOS snapshots the process environment into the map form
// StartupOptions expects.
func EnvFromOS() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// InitStartup builds the logger used before full configuration is loaded.
// Console output is always attached (error-and-above to stderr); a rolling
// file and a remote collector sink are attached depending on environment
// variables. The minimum level is fixed at debug for the whole startup phase.
//
// The only fatal condition is file logging enabled with a blank resolved
// path; a bad collector URL just disables the collector sink.
func InitStartup(opts StartupOptions) (logger.Logger, error) {
	if opts.BasePath == nil {
		return nil, apperrors.FatalConfig("startup.base_path", "required argument is nil")
	}

	plan, err := planStartup(opts.Env, opts.BasePath)
	if err != nil {
		return nil, err
	}

	sw := opts.Switch
	if sw == nil {
		sw = logger.NewLevelSwitch(zapcore.DebugLevel)
	}

	b := NewBuilder(sw)

	if plan.filePath != "" {
		w, err := rolling.New(plan.filePath, rolling.WithRotateHook(opts.Metrics.Rotation))
		if err != nil {
			return nil, apperrors.WrapWithContext(err, "startup file logging")
		}
		b = b.WithCore(fileCore(w, sw.Enabler(zapcore.DebugLevel), opts.Metrics))
	}

	if plan.collector != nil {
		core, err := collector.NewCore(plan.collector, sw.Enabler(zapcore.DebugLevel),
			collector.WithMetrics(opts.Metrics))
		if err == nil {
			b = b.WithCore(core)
		}
		// A collector that cannot be constructed is treated like an
		// unparsable URL: the sink is skipped, startup continues.
	}

	b = b.WithCore(newConsoleCore(
		sw.Enabler(zapcore.DebugLevel),
		zapcore.Lock(os.Stdout),
		zapcore.Lock(os.Stderr),
		opts.Metrics,
	))

	for _, h := range opts.Handlers {
		b = h.ConfigureStartupLogger(b)
	}

	log := b.Build()

	if opts.Buffer != nil {
		opts.Buffer.Flush(log)
	}

	log.Info("startup logging initialized",
		logger.String("min_level", "debug"),
		logger.String("collector_url", plan.collectorURL),
	)
	log.Info("startup base directory resolved",
		logger.String("base_dir", opts.BasePath("")),
	)

	return log, nil
}

// startupPlan is the decision output of the startup environment scan.
type startupPlan struct {
	filePath     string
	collector    *collector.Target
	collectorURL string
}

// planStartup resolves the environment into concrete sink decisions without
// touching the filesystem or network.
func planStartup(env map[string]string, basePath func(string) string) (startupPlan, error) {
	var plan startupPlan

	expand := func(s string) string {
		return os.Expand(s, func(k string) string { return env[k] })
	}

	if enabled, err := strconv.ParseBool(env[EnvStartupLogToFile]); err == nil && enabled {
		path := strings.TrimSpace(expand(env[EnvStartupLogFile]))
		if path == "" {
			path = strings.TrimSpace(basePath(defaultStartupLogName))
		}
		if path == "" {
			return startupPlan{}, apperrors.FatalConfig(EnvStartupLogFile,
				"file logging enabled but the resolved path is blank")
		}
		plan.filePath = path
	}

	if raw := strings.TrimSpace(expand(env[EnvStartupCollectorURL])); raw != "" {
		if target, err := collector.Parse(raw); err == nil {
			plan.collector = target
			plan.collectorURL = raw
		}
	}

	return plan, nil
}

// fileCore builds a JSON core over a rolling writer, counting written
// records when sinks is set.
func fileCore(w *rolling.Writer, enabler zapcore.LevelEnabler, sinks *metrics.Sinks) zapcore.Core {
	enc := zapcore.NewJSONEncoder(logger.DefaultEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(w), enabler)
	if sinks == nil {
		return core
	}
	return zapcore.RegisterHooks(core, func(zapcore.Entry) error {
		sinks.Event(metrics.SinkFile)
		return nil
	})
}
