package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/halcyonlabs/appboot/logger"
)

// Environment variables consumed by continuous profiling.
const (
	// EnvEnableContinuousProfiling enables Pyroscope when "true".
	EnvEnableContinuousProfiling = "ENABLE_CONTINUOUS_PROFILING"
	// EnvPyroscopeServerURL is the Pyroscope server address.
	EnvPyroscopeServerURL = "PYROSCOPE_SERVER_URL"
	// EnvPyroscopeEnvironment tags profiles with a deployment environment.
	EnvPyroscopeEnvironment = "PYROSCOPE_ENVIRONMENT"
)

const (
	defaultPyroscopeURL = "http://pyroscope:4040"
	defaultEnvironment  = "development"
)

// Profiler holds a running Pyroscope session.
type Profiler struct {
	profiler *pyroscope.Profiler
}

// StartPyroscope starts continuous profiling for the named application when
// ENABLE_CONTINUOUS_PROFILING=true. Returns (nil, nil) when disabled; an
// error only when profiling is enabled but cannot start.
func StartPyroscope(appName string, log logger.Logger) (*Profiler, error) {
	if os.Getenv(EnvEnableContinuousProfiling) != "true" {
		return nil, nil
	}

	serverURL := os.Getenv(EnvPyroscopeServerURL)
	if serverURL == "" {
		serverURL = defaultPyroscopeURL
	}
	environment := os.Getenv(EnvPyroscopeEnvironment)
	if environment == "" {
		environment = defaultEnvironment
	}

	runtime.SetMutexProfileFraction(5)
	runtime.SetBlockProfileRate(5)

	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   serverURL,
		Logger:          nil,
		Tags: map[string]string{
			"environment": environment,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockCount,
			pyroscope.ProfileBlockDuration,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	log.Info("continuous profiling started",
		logger.String("server", serverURL),
		logger.String("environment", environment),
	)

	return &Profiler{profiler: p}, nil
}

// Stop flushes and stops the profiling session. Nil-safe.
func (p *Profiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}
