package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/fieldguide/internal/schema"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fieldguide.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Dataset)
	assert.Equal(t, DefaultLocale, cfg.Locale)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultTimeout, cfg.Fetch.Timeout)
	assert.Equal(t, int64(DefaultMaxBytes), cfg.Fetch.MaxBytes)
	assert.False(t, cfg.Schema.Strict)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `dataset: ./issues.json
locale: fr
output: json
log:
  level: debug
  format: json
fetch:
  timeout: 5s
  insecure: true
schema:
  strict: true
  fields:
    spare_part: Pieces
    sop_link: Procedure
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "./issues.json", cfg.Dataset)
	assert.Equal(t, "fr", cfg.Locale)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.Insecure)
	assert.True(t, cfg.Schema.Strict)
	assert.Equal(t, path, GetConfigFileUsed())

	overrides, err := cfg.SchemaOverrides()
	require.NoError(t, err)
	assert.Equal(t, map[schema.Role]string{
		schema.RoleSparePart: "Pieces",
		schema.RoleSOPLink:   "Procedure",
	}, overrides)
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "fieldguide.yml"), []byte("dataset: data.csv\n"), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "data.csv", cfg.Dataset)
	assert.Equal(t, "fieldguide.yml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, "dataset: from_file\nlog:\n  level: info\n")

	newFlags := func() *pflag.FlagSet {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.StringP("dataset", "d", "", "dataset")
		flags.String("log-level", "", "log level")
		flags.Bool("strict-schema", false, "strict")
		return flags
	}

	t.Run("env overrides file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("FIELDGUIDE_DATASET", "from_env")
		t.Setenv("FIELDGUIDE_LOG__LEVEL", "error")

		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "from_env", cfg.Dataset)
		assert.Equal(t, "error", cfg.Log.Level)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("FIELDGUIDE_DATASET", "from_env")
		flags := newFlags()
		require.NoError(t, flags.Set("dataset", "from_flag"))
		require.NoError(t, flags.Set("log-level", "debug"))
		require.NoError(t, flags.Set("strict-schema", "true"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "from_flag", cfg.Dataset)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Schema.Strict)
	})

	t.Run("unset flag falls back to env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("FIELDGUIDE_DATASET", "from_env")

		cfg, err := LoadConfig(path, newFlags())
		require.NoError(t, err)
		assert.Equal(t, "from_env", cfg.Dataset)
		assert.Equal(t, "info", cfg.Log.Level)
	})
}

func TestLoadConfig_VerboseRaisesLogLevel(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "verbose")
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `output: html
log:
  level: loud
schema:
  fields:
    colour: Paint
`)

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `output must be one of`)
	assert.Contains(t, err.Error(), `log.level "loud"`)
	assert.Contains(t, err.Error(), "unknown role(s) colour")
	assert.Nil(t, GetCurrentConfig())
}

func TestLoadConfig_NormalizesCase(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("FIELDGUIDE_OUTPUT", "Markdown")
	t.Setenv("FIELDGUIDE_CLIPBOARD", "OSC52")
	t.Setenv("FIELDGUIDE_FORMAT", " CSV ")
	t.Setenv("FIELDGUIDE_LOG__FORMAT", "JSON")
	t.Setenv("FIELDGUIDE_LOG__LEVEL", "Info")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.Output)
	assert.Equal(t, "osc52", cfg.Clipboard)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FG_TEST_HOST", "db.internal")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${FG_TEST_HOST}", "db.internal"},
		{"inside url", "postgres://${FG_TEST_HOST}/guide?table=issues", "postgres://db.internal/guide?table=issues"},
		{"unset variable stays as-is", "${FG_TEST_UNSET}", "${FG_TEST_UNSET}"},
		{"no variables", "issues.json", "issues.json"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestLoadConfig_ExpandsDataset(t *testing.T) {
	ResetConfig()
	t.Setenv("FG_TEST_DIR", "/srv/guides")
	path := writeConfig(t, "dataset: ${FG_TEST_DIR}/issues.yaml\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/srv/guides/issues.yaml", cfg.Dataset)
}

func TestConfig_RequireDataset(t *testing.T) {
	cfg := Default()
	err := cfg.RequireDataset()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dataset")

	cfg.Dataset = "issues.json"
	assert.NoError(t, cfg.RequireDataset())
}

func TestConfig_LocaleTag(t *testing.T) {
	cfg := Default()
	cfg.Locale = "de"
	assert.Equal(t, language.German, cfg.LocaleTag())

	cfg.Locale = "!!"
	assert.Equal(t, language.English, cfg.LocaleTag())
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := Default()
			cfg.Log.Level = tt.in
			got, err := cfg.SlogLevel()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetLogger_Fallback(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)

	custom := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), custom)
	assert.Same(t, custom, GetLogger(ctx))
}
