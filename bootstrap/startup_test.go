package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/halcyonlabs/appboot/errors"
)

func basePathIn(dir string) func(string) string {
	return func(name string) string { return filepath.Join(dir, name) }
}

func TestPlanStartup_FileFlagFalseMeansNoFile(t *testing.T) {
	t.Parallel()

	for _, flag := range []string{"", "false", "0", "no-bool"} {
		plan, err := planStartup(map[string]string{
			EnvStartupLogToFile: flag,
			EnvStartupLogFile:   "/var/log/startup.log",
		}, basePathIn("/base"))

		require.NoError(t, err, "flag %q", flag)
		assert.Empty(t, plan.filePath, "flag %q must not enable the file sink", flag)
	}
}

func TestPlanStartup_ExplicitPathWinsAndExpands(t *testing.T) {
	t.Parallel()

	plan, err := planStartup(map[string]string{
		EnvStartupLogToFile: "true",
		EnvStartupLogFile:   "${LOG_ROOT}/startup.log",
		"LOG_ROOT":          "/var/log/svc",
	}, basePathIn("/base"))

	require.NoError(t, err)
	assert.Equal(t, "/var/log/svc/startup.log", plan.filePath)
}

func TestPlanStartup_DefaultPathUnderBase(t *testing.T) {
	t.Parallel()

	plan, err := planStartup(map[string]string{
		EnvStartupLogToFile: "1",
	}, basePathIn("/base"))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/base", "startup.log"), plan.filePath)
}

func TestPlanStartup_BlankResolvedPathIsFatal(t *testing.T) {
	t.Parallel()

	_, err := planStartup(map[string]string{
		EnvStartupLogToFile: "true",
		EnvStartupLogFile:   "   ",
	}, func(string) string { return "" })

	require.Error(t, err)
	assert.True(t, apperrors.IsFatalConfig(err))
}

func TestPlanStartup_CollectorURLParsedAndExpanded(t *testing.T) {
	t.Parallel()

	plan, err := planStartup(map[string]string{
		EnvStartupCollectorURL: "http://${COLLECTOR_HOST}:5341",
		"COLLECTOR_HOST":       "collector.internal",
	}, basePathIn("/base"))

	require.NoError(t, err)
	require.NotNil(t, plan.collector)
	assert.Equal(t, "http://collector.internal:5341", plan.collectorURL)
}

func TestPlanStartup_BadCollectorURLSilentlyDisabled(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"not-absolute", "/relative/only", "ftp://nope"} {
		plan, err := planStartup(map[string]string{
			EnvStartupCollectorURL: raw,
		}, basePathIn("/base"))

		require.NoError(t, err, "bad URL %q must not error", raw)
		assert.Nil(t, plan.collector, "bad URL %q must not attach a collector", raw)
	}
}

func TestInitStartup_RequiresBasePath(t *testing.T) {
	t.Parallel()

	log, err := InitStartup(StartupOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsFatalConfig(err))
	assert.Nil(t, log)
}

func TestInitStartup_NoFileSinkWhenFlagUnset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	log, err := InitStartup(StartupOptions{
		BasePath: basePathIn(dir),
		Env: map[string]string{
			EnvStartupLogFile: filepath.Join(dir, "explicit.log"),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, log)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no startup log file may exist without the enable flag")
}

func TestInitStartup_DefaultFileCreatedUnderBase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	log, err := InitStartup(StartupOptions{
		BasePath: basePathIn(filepath.Join(dir, "logs")),
		Env:      map[string]string{EnvStartupLogToFile: "true"},
	})
	require.NoError(t, err)
	require.NoError(t, log.Sync())

	// InitStartup emits its own records, so the default file exists and has
	// content; its parent directory was created on demand.
	data, err := os.ReadFile(filepath.Join(dir, "logs", "startup.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "startup logging initialized")
}

func TestInitStartup_FlushesPrelogBuffer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	buf := NewPrelog()
	buf.Warn("captured before any logger existed")

	log, err := InitStartup(StartupOptions{
		BasePath: basePathIn(dir),
		Env:      map[string]string{EnvStartupLogToFile: "true"},
		Buffer:   buf,
	})
	require.NoError(t, err)
	require.NoError(t, log.Sync())

	assert.Zero(t, buf.Len())

	data, err := os.ReadFile(filepath.Join(dir, "startup.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "captured before any logger existed")
}

func TestInitStartup_HandlersRunInSuppliedOrder(t *testing.T) {
	t.Parallel()

	var applied []string
	mark := func(id string) StartupHandler {
		return StartupHandlerFunc(func(b Builder) Builder {
			applied = append(applied, id)
			return b
		})
	}

	_, err := InitStartup(StartupOptions{
		BasePath: basePathIn(t.TempDir()),
		Handlers: []StartupHandler{mark("first"), mark("second"), mark("third")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, applied)
}

func TestInitStartup_BadCollectorURLDoesNotError(t *testing.T) {
	t.Parallel()

	log, err := InitStartup(StartupOptions{
		BasePath: basePathIn(t.TempDir()),
		Env:      map[string]string{EnvStartupCollectorURL: "::not-a-url::"},
	})
	require.NoError(t, err)
	require.NotNil(t, log)
}
