package config

import "strings"

// Config is the top-level configuration consumed by the bootstrap sequence.
// Host applications usually embed it in their own config struct.
type Config struct {
	// AppName is attached to every application log record when set.
	AppName string `yaml:"app_name" env:"APP_NAME"`
	// TempDir, when set, overrides the process temp directory on startup.
	TempDir string `yaml:"temp_dir" env:"APP_TEMP_DIR"`
	// Logging holds zero or more logging settings blocks. The application
	// initializer uses the first and warns when more than one is present.
	Logging []LoggingSettings `yaml:"logging"`
}

// LoggingSettings is the configuration snapshot the application logging
// initializer consumes. It is read once per initialization and never mutated.
type LoggingSettings struct {
	// DebugConsole enables the verbose development console sink.
	DebugConsole bool `yaml:"debug_console" env:"LOG_DEBUG_CONSOLE"`
	// CollectorEnabled enables shipping records to the remote log collector.
	CollectorEnabled bool `yaml:"collector_enabled" env:"LOG_COLLECTOR_ENABLED"`
	// CollectorURL is the absolute ingest URL of the remote log collector.
	CollectorURL string `yaml:"collector_url" env:"LOG_COLLECTOR_URL"`
	// CollectorAPIKey is sent as the X-API-Key header on HTTP ingestion.
	CollectorAPIKey string `yaml:"collector_api_key" env:"LOG_COLLECTOR_API_KEY"`
	// FileEnabled enables the daily-rolling application log file.
	FileEnabled bool `yaml:"file_enabled" env:"LOG_FILE_ENABLED"`
	// FilePath is the rolling log file path, absolute or base-dir relative.
	FilePath string `yaml:"file_path" env:"LOG_FILE_PATH"`
	// FrameworkMinLevel is the minimum level applied to records logged under
	// the framework namespace. Defaults to warn when blank or unparsable.
	FrameworkMinLevel string `yaml:"framework_min_level" env:"LOG_FRAMEWORK_MIN_LEVEL"`
}

// Valid reports whether the settings are internally consistent: a collector
// that is enabled must have a URL. An enabled file sink without a path is
// deliberately NOT part of this check; the initializer treats that one
// condition as fatal rather than as a soft inconsistency.
func (s *LoggingSettings) Valid() bool {
	if s.CollectorEnabled && strings.TrimSpace(s.CollectorURL) == "" {
		return false
	}
	return true
}
