package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
graph:
  tenant_id: "11111111-1111-1111-1111-111111111111"
  client_id: "22222222-2222-2222-2222-222222222222"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "11111111-1111-1111-1111-111111111111", cfg.Graph.TenantID)
	assert.Equal(t, time.Hour, cfg.Server.CheckInterval)
	assert.Equal(t, time.Minute, cfg.Server.ErrorRetry)
	assert.Equal(t, "daily stand up", cfg.Organize.Term)
	assert.Equal(t, "daily meetings", cfg.Organize.Folder)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Contains(t, cfg.Token.CachePath, "token.json")
	assert.Contains(t, cfg.Server.StatePath, "state.db")
	assert.Empty(t, cfg.Server.StatusAddr)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := writeConfigFile(t, `
graph:
  tenant_id: "tenant"
  client_id: "client"
organize:
  term: "weekly sync"
  folder: "syncs"
server:
  check_interval: 30s
  error_retry: 5s
  status_addr: ":8097"
logging:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "weekly sync", cfg.Organize.Term)
	assert.Equal(t, "syncs", cfg.Organize.Folder)
	assert.Equal(t, 30*time.Second, cfg.Server.CheckInterval)
	assert.Equal(t, 5*time.Second, cfg.Server.ErrorRetry)
	assert.Equal(t, ":8097", cfg.Server.StatusAddr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GRAPHMAIL_GRAPH_TENANT_ID", "env-tenant")
	t.Setenv("GRAPHMAIL_GRAPH_CLIENT_ID", "env-client")
	t.Setenv("GRAPHMAIL_ORGANIZE_FOLDER", "from-env")

	path := writeConfigFile(t, `
organize:
  folder: "from-file"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-tenant", cfg.Graph.TenantID)
	assert.Equal(t, "from-env", cfg.Organize.Folder)
}

// The required graph keys have no value in any config file here; they must
// still be resolvable from the environment alone.
func TestLoadConfig_EnvOnlyCredentials(t *testing.T) {
	t.Setenv("GRAPHMAIL_GRAPH_TENANT_ID", "env-only-tenant")
	t.Setenv("GRAPHMAIL_GRAPH_CLIENT_ID", "env-only-client")

	path := writeConfigFile(t, `
logging:
  level: warn
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-only-tenant", cfg.Graph.TenantID)
	assert.Equal(t, "env-only-client", cfg.Graph.ClientID)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := &Config{
		Graph: GraphConfig{TenantID: "t", ClientID: "c"},
		Server: ServerConfig{
			CheckInterval: time.Hour,
			ErrorRetry:    time.Minute,
		},
	}
	assert.NoError(t, ValidateConfig(valid))

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "MissingTenantID",
			mutate:  func(c *Config) { c.Graph.TenantID = "" },
			wantErr: "graph.tenant_id",
		},
		{
			name:    "MissingClientID",
			mutate:  func(c *Config) { c.Graph.ClientID = "" },
			wantErr: "graph.client_id",
		},
		{
			name:    "MissingBoth",
			mutate:  func(c *Config) { c.Graph = GraphConfig{} },
			wantErr: "graph.tenant_id, graph.client_id",
		},
		{
			name:    "ZeroCheckInterval",
			mutate:  func(c *Config) { c.Server.CheckInterval = 0 },
			wantErr: "check interval",
		},
		{
			name:    "ZeroErrorRetry",
			mutate:  func(c *Config) { c.Server.ErrorRetry = 0 },
			wantErr: "error retry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			err := ValidateConfig(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
