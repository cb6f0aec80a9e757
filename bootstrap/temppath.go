package bootstrap

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/halcyonlabs/appboot/logger"
)

// Temp-directory environment variables set on success. TMPDIR is what
// os.TempDir honors on Unix; TEMP covers tooling that reads the Windows-style
// name.
const (
	envTmpDir = "TMPDIR"
	envTemp   = "TEMP"
)

// ConfigureTempDir points the process temp directory at dir. A blank dir is
// a no-op (the system default stays in effect). The directory is created if
// missing; creating it when it already exists is not an error.
//
// Never fails: any problem is logged as a warning and the process temp
// directory is left unchanged.
func ConfigureTempDir(dir string, log logger.Logger) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		log.Warn("temp directory path could not be resolved, keeping system default",
			logger.String("path", dir), logger.Error(err))
		return
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		log.Warn("temp directory could not be created, keeping system default",
			logger.String("path", abs), logger.Error(err))
		return
	}

	if err := os.Setenv(envTmpDir, abs); err != nil {
		log.Warn("temp directory variable could not be set, keeping system default",
			logger.String("var", envTmpDir), logger.Error(err))
		return
	}
	if err := os.Setenv(envTemp, abs); err != nil {
		log.Warn("temp directory variable could not be set, keeping system default",
			logger.String("var", envTemp), logger.Error(err))
		return
	}

	log.Debug("temp directory configured", logger.String("path", abs))
}
