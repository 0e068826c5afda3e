package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vespabridge/searchkit/config"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 8, cfg.MaxRetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 3, cfg.FetchConcurrency)
	assert.Equal(t, 400, cfg.FetchBatchSize)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadWithNoOverridesReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	t.Setenv("SEARCHKIT_NAMESPACE", "prod")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Namespace)
	assert.Equal(t, 8, cfg.MaxRetryAttempts)
}

func TestLoadAppliesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "searchkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: from-file\npage: 50\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Namespace)
	assert.Equal(t, 50, cfg.Page)
	assert.Equal(t, 8, cfg.MaxRetryAttempts)
}
