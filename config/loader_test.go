package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/halcyonlabs/appboot/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfigFile(t, `
app_name: billing
temp_dir: /var/tmp/billing
logging:
  - file_enabled: true
    file_path: logs/billing.log
    collector_enabled: true
    collector_url: http://collector:5341
`)

	cfg, err := config.Load[config.Config](path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.AppName != "billing" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "billing")
	}
	if cfg.TempDir != "/var/tmp/billing" {
		t.Errorf("TempDir = %q, want %q", cfg.TempDir, "/var/tmp/billing")
	}
	if len(cfg.Logging) != 1 {
		t.Fatalf("len(Logging) = %d, want 1", len(cfg.Logging))
	}
	if !cfg.Logging[0].FileEnabled || cfg.Logging[0].FilePath != "logs/billing.log" {
		t.Errorf("unexpected logging settings: %+v", cfg.Logging[0])
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfigFile(t, `
app_name: from-yaml
logging:
  - collector_enabled: false
    collector_url: http://yaml:5341
`)

	t.Setenv("APP_NAME", "from-env")
	t.Setenv("LOG_COLLECTOR_URL", "http://env:5341")

	cfg, err := config.Load[config.Config](path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.AppName != "from-env" {
		t.Errorf("AppName = %q, want env override %q", cfg.AppName, "from-env")
	}
	if cfg.Logging[0].CollectorURL != "http://env:5341" {
		t.Errorf("CollectorURL = %q, want env override", cfg.Logging[0].CollectorURL)
	}
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := config.Load[config.Config](filepath.Join(t.TempDir(), "absent.yml"))
	if err == nil {
		t.Fatal("Load of missing file returned nil error")
	}
}

func TestLoadWithDefaults_EnvStillWins(t *testing.T) {
	path := writeConfigFile(t, "app_name: \"\"\n")
	t.Setenv("APP_NAME", "env-app")

	cfg, err := config.LoadWithDefaults(path, func(c *config.Config) {
		if c.AppName == "" {
			c.AppName = "default-app"
		}
	})
	if err != nil {
		t.Fatalf("LoadWithDefaults returned error: %v", err)
	}

	if cfg.AppName != "env-app" {
		t.Errorf("AppName = %q, env must win over defaults", cfg.AppName)
	}
}

func TestLoggingSettings_Valid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		settings config.LoggingSettings
		want     bool
	}{
		{"empty", config.LoggingSettings{}, true},
		{"collector enabled with url", config.LoggingSettings{CollectorEnabled: true, CollectorURL: "http://c:5341"}, true},
		{"collector enabled without url", config.LoggingSettings{CollectorEnabled: true}, false},
		{"collector enabled blank url", config.LoggingSettings{CollectorEnabled: true, CollectorURL: "   "}, false},
		// An enabled file sink with no path is a fatal condition handled by
		// the initializer, not a soft validity failure.
		{"file enabled without path", config.LoggingSettings{FileEnabled: true}, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.settings.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	good := config.Config{Logging: []config.LoggingSettings{{FrameworkMinLevel: "warn"}}}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := config.Config{Logging: []config.LoggingSettings{{FrameworkMinLevel: "loud"}}}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted an invalid framework level")
	}
}
