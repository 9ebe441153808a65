package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"fuseki_endpoint": "http://localhost:3030/unified/query",
		"api_key": "test-key",
		"port": 9090,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "http://localhost:3030/unified/query", cfg.FusekiEndpoint)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{Port: 70000}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")

	cfg = &Config{Port: 8080}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingJobFile(t *testing.T) {
	cfg := &Config{Job: "/nonexistent/job.txt"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "job file not found")
}

func TestValidate_ExistingJobFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("Senior Engineer"), 0644))

	cfg := &Config{Job: tmpFile}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{APIKey: "flag-key"}
	defaults := Config{
		APIKey:         "file-key",
		FusekiEndpoint: "http://localhost:3030/unified/query",
		Port:           9090,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "flag-key", merged.APIKey, "explicit values win")
	assert.Equal(t, "http://localhost:3030/unified/query", merged.FusekiEndpoint)
	assert.Equal(t, 9090, merged.Port)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Job: "job.txt", Port: 8080}
	merged := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, cfg, merged)
}
