package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqlfront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.String("log-level", "", "")
	flags.String("catalog", "", "")
	flags.String("history", "", "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultCatalogFile, cfg.CatalogPath)
	assert.Equal(t, DefaultHistoryFile, cfg.HistoryFile)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
output: json
log_level: info
catalog_path: data/catalog.db
history_file: /tmp/sqlfront_history
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "data", "catalog.db"), cfg.CatalogPath)
	assert.Equal(t, "/tmp/sqlfront_history", cfg.HistoryFile)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_DiscoversConfigInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlfront.yml"), []byte("output: yaml\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, "sqlfront.yml", cfg.ConfigFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvPrecedenceOverFile(t *testing.T) {
	path := writeConfig(t, "output: json\n")
	t.Setenv("SQLFRONT_OUTPUT", "markdown")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
}

func TestLoad_FlagPrecedence(t *testing.T) {
	path := writeConfig(t, "output: json\ncatalog_path: from_file.db\n")
	t.Setenv("SQLFRONT_OUTPUT", "markdown")
	t.Setenv("SQLFRONT_CATALOG_PATH", "from_env.db")

	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"-o", "text", "--catalog", ":memory:", "--log-level", "error"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, ":memory:", cfg.CatalogPath)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_FlagNotSetUsesEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLFRONT_CATALOG_PATH", "from_env.db")

	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"-o", "json"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "from_env.db", cfg.CatalogPath)
}

func TestLoad_VerboseForcesDebug(t *testing.T) {
	t.Chdir(t.TempDir())

	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"-v", "--log-level", "error"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad output", "output: csv\n", "invalid output mode"},
		{"bad log level", "log_level: loud\n", "invalid log level"},
		{"empty catalog", "catalog_path: \"\"\n", "catalog_path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseLogLevel("trace")
	assert.Error(t, err)
}

func TestResolvePathRelativeTo(t *testing.T) {
	assert.Equal(t, "", resolvePathRelativeTo("", "/base"))
	assert.Equal(t, ":memory:", resolvePathRelativeTo(":memory:", "/base"))
	assert.Equal(t, "/abs/x.db", resolvePathRelativeTo("/abs/x.db", "/base"))
	assert.Equal(t, filepath.Join("/base", "x.db"), resolvePathRelativeTo("x.db", "/base"))
	assert.Equal(t, "x.db", resolvePathRelativeTo("x.db", ""))
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(&buf, &Config{LogLevel: "info"})
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	GetLogger(ctx).Debug("hidden")
	GetLogger(ctx).Info("shown", "table", "t")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown table=t")
}

func TestConfigContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := &Config{OutputFormat: "json", LogLevel: "info", CatalogPath: ":memory:"}
	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
