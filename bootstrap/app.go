package bootstrap

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/halcyonlabs/appboot/collector"
	"github.com/halcyonlabs/appboot/config"
	apperrors "github.com/halcyonlabs/appboot/errors"
	"github.com/halcyonlabs/appboot/logger"
	"github.com/halcyonlabs/appboot/metrics"
	"github.com/halcyonlabs/appboot/rolling"
)

// FrameworkNamespace is the logger-name prefix the framework minimum-level
// override applies to. Libraries integrated through this module log under
// startupLogger.Named(FrameworkNamespace).Named("<lib>").
const FrameworkNamespace = "framework"

// AppOptions carries everything InitApplication needs. Config and Startup
// are required; the rest is optional.
type AppOptions struct {
	// Config is the fully loaded configuration.
	Config *config.Config
	// Startup is the logger from InitStartup. It receives the degraded-state
	// records of this initializer and is returned unchanged when no logging
	// settings exist.
	Startup logger.Logger
	// Handlers are applied to the in-progress configuration in the order
	// supplied. Use OrderHandlers first when they declare priorities.
	Handlers []Handler
	// Switch is the runtime level switch the logger binds to. A new switch
	// at info is created when nil.
	Switch *logger.LevelSwitch
	// BasePath resolves relative file paths. Defaults to the directory of
	// the running executable.
	BasePath func(name string) string
	// Metrics receives sink diagnostics counters when set.
	Metrics *metrics.Sinks
}

// InitApplication builds the main application logger from configuration.
//
// Degradation policy: missing settings fall back to the startup logger,
// ambiguous or inconsistent settings produce a warning and best-effort
// configuration. The one fatal condition is a rolling file sink that is
// enabled without a path.
func InitApplication(opts AppOptions) (logger.Logger, error) {
	if opts.Config == nil {
		return nil, apperrors.FatalConfig("app.config", "required argument is nil")
	}
	if opts.Startup == nil {
		return nil, apperrors.FatalConfig("app.startup_logger", "required argument is nil")
	}

	startup := opts.Startup

	settings, ok := selectSettings(opts.Config, startup)
	if !ok {
		// Degraded fallback: the host keeps logging through the startup
		// logger rather than crashing over absent configuration.
		return startup, nil
	}

	valid := settings.Valid()
	if !valid {
		startup.Warn("logging settings are inconsistent, proceeding best-effort")
	}

	if settings.FileEnabled && strings.TrimSpace(settings.FilePath) == "" {
		return nil, apperrors.FatalConfig("logging.file_path",
			"rolling file logging enabled but no path configured")
	}

	sw := opts.Switch
	if sw == nil {
		sw = logger.NewLevelSwitch(zapcore.InfoLevel)
	}
	basePath := opts.BasePath
	if basePath == nil {
		basePath = defaultBasePath
	}

	b := NewBuilder(sw)

	if opts.Config.AppName != "" {
		b = b.WithFields(logger.String("app", opts.Config.AppName))
	}
	b = b.WithFields(logger.String("run_id", uuid.NewString()))

	if settings.DebugConsole {
		b = b.WithCore(zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stdout),
			sw.Enabler(zapcore.DebugLevel),
		))
	}

	if url := strings.TrimSpace(settings.CollectorURL); url != "" && valid {
		b = attachCollector(b, startup, url, settings.CollectorAPIKey, sw, opts.Metrics)
	} else if settings.CollectorEnabled {
		startup.Debug("collector enabled but settings invalid, sink skipped")
	}

	if settings.FileEnabled {
		path := settings.FilePath
		if !filepath.IsAbs(path) {
			path = basePath(path)
		}
		w, err := rolling.New(path, rolling.WithRotateHook(opts.Metrics.Rotation))
		if err != nil {
			return nil, apperrors.WrapWithContext(err, "application file logging")
		}
		b = b.WithCore(fileCore(w, sw.Enabler(zapcore.DebugLevel), opts.Metrics))
	}

	b = b.WithCore(newConsoleCore(
		sw.Enabler(zapcore.DebugLevel),
		zapcore.Lock(os.Stdout),
		zapcore.Lock(os.Stderr),
		opts.Metrics,
	))

	b = b.WithNamespaceMinLevel(FrameworkNamespace,
		logger.ParseLevelDefault(settings.FrameworkMinLevel, zapcore.WarnLevel))

	if ambient := logger.GlobalFields(); len(ambient) > 0 {
		b = b.WithFields(ambient...)
	}

	for _, h := range opts.Handlers {
		b = h.ConfigureLogger(b)
	}

	log := b.Build()
	log.Info("application logging initialized",
		logger.Bool("file_sink", settings.FileEnabled),
		logger.Bool("collector_sink", strings.TrimSpace(settings.CollectorURL) != "" && valid),
		logger.String("framework_min_level",
			logger.ParseLevelDefault(settings.FrameworkMinLevel, zapcore.WarnLevel).String()),
	)
	return log, nil
}

// selectSettings applies the multiplicity policy: none found is an error
// record plus fallback, more than one is a warning plus first-wins.
func selectSettings(cfg *config.Config, startup logger.Logger) (*config.LoggingSettings, bool) {
	switch len(cfg.Logging) {
	case 0:
		startup.Error("no logging settings found in configuration, keeping startup logger")
		return nil, false
	case 1:
		return &cfg.Logging[0], true
	default:
		startup.Warn("multiple logging settings blocks found, using the first",
			logger.Int("count", len(cfg.Logging)))
		return &cfg.Logging[0], true
	}
}

// attachCollector adds the remote collector sink when the URL is usable.
// Unparsable URLs and construction failures are soft: warned and skipped.
func attachCollector(b Builder, startup logger.Logger, url, apiKey string, sw *logger.LevelSwitch, sinks *metrics.Sinks) Builder {
	target, err := collector.Parse(url)
	if err != nil {
		startup.Warn("collector URL invalid, collector sink disabled",
			logger.String("url", url), logger.Error(err))
		return b
	}

	core, err := collector.NewCore(target, sw.Enabler(zapcore.DebugLevel),
		collector.WithMetrics(sinks),
		collector.WithAPIKey(apiKey),
	)
	if err != nil {
		startup.Warn("collector sink could not be constructed, disabled",
			logger.String("url", url), logger.Error(err))
		return b
	}
	return b.WithCore(core)
}

// defaultBasePath resolves name against the running executable's directory,
// falling back to the working directory.
func defaultBasePath(name string) string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return filepath.Join(wd, name)
	}
	return filepath.Join(filepath.Dir(exe), name)
}
