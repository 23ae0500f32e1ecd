package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("dialect", "", "")
	fs.String("models-dir", "", "")
	fs.String("format", "text", "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultModelsDir, cfg.ModelsDir)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.File)
}

func TestLoad_Layering(t *testing.T) {
	path := writeConfig(t, "dialect: postgres\nmodels_dir: schema\ndatabase: app.db\nformat: json\n")

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Dialect)
		assert.Equal(t, "schema", cfg.ModelsDir)
		assert.Equal(t, "app.db", cfg.Database)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, path, cfg.File)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PREDSQL_MODELS_DIR", "from-env")
		t.Setenv("PREDSQL_DIALECT", "sqlserver")

		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.ModelsDir)
		assert.Equal(t, "sqlserver", cfg.Dialect)
	})

	t.Run("set flags override env", func(t *testing.T) {
		t.Setenv("PREDSQL_MODELS_DIR", "from-env")

		fs := testFlags()
		require.NoError(t, fs.Parse([]string{"--models-dir", "from-flag", "--verbose"}))

		cfg, err := Load(path, fs)
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.ModelsDir)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, "json", cfg.Format, "unset flag defaults do not override the file")
	})
}

func TestLoad_FindsDefaultFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "predsql.yml"), []byte("dialect: sqlserver\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", cfg.Dialect)
	assert.Equal(t, "predsql.yml", cfg.File)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown dialect", "dialect: oracle\n", "invalid dialect"},
		{"bad format", "format: xml\n", `invalid format "xml"`},
		{"bad yaml", "dialect: [\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}
