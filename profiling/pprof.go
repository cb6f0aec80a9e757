// Package profiling provides the optional profiling side of the bootstrap
// layer: a pprof debug server and Pyroscope continuous profiling, both gated
// by environment flags and reporting through the injected logger.
package profiling

import (
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/halcyonlabs/appboot/logger"
)

// Environment variables consumed by the pprof server.
const (
	// EnvEnableProfiling enables the pprof debug server when "true".
	EnvEnableProfiling = "ENABLE_PROFILING"
	// EnvPprofPort overrides the default pprof listen port.
	EnvPprofPort = "PPROF_PORT"
)

const defaultPprofPort = "6060"

// StartPprofServer starts the pprof debug server on its own port when
// ENABLE_PROFILING=true. It returns immediately; the server runs on a
// background goroutine for the lifetime of the process.
//
// Endpoints are the standard net/http/pprof set under /debug/pprof/.
func StartPprofServer(log logger.Logger) {
	if os.Getenv(EnvEnableProfiling) != "true" {
		return
	}

	port := os.Getenv(EnvPprofPort)
	if port == "" {
		port = defaultPprofPort
	}
	addr := "localhost:" + port

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("pprof debug server starting", logger.String("addr", addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("pprof debug server stopped", logger.Error(err))
		}
	}()
}
