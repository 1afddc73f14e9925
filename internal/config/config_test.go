package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join("docker", ".env"), cfg.EnvFile())
	assert.Equal(t, filepath.Join("docker", "docker-compose.override.yml"), cfg.OverrideFile())
	assert.Equal(t, filepath.Join("docker", "deployment_config.json"), cfg.StateFile())
	assert.Equal(t, filepath.Join("docker", "docker-compose.yml"), cfg.ComposeFile())
	assert.Empty(t, cfg.CatalogPath())
}

func TestLoadFrom_File(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
project_dir: /srv/lcars
paths:
  docker_dir: stack
  state_file: /var/lib/stackctl/state.json
catalog:
  path: catalog.yaml
detect:
  concurrency: 2
  tcp_timeout: 500ms
generate:
  replace_ports: false
log:
  level: debug
  format: json
`)))

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Detect.Concurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.Detect.TCPTimeout)
	assert.Equal(t, 5*time.Second, cfg.Detect.HTTPTimeout)
	assert.False(t, cfg.Generate.ReplacePorts)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/srv/lcars/stack/.env", cfg.EnvFile())
	assert.Equal(t, "/var/lib/stackctl/state.json", cfg.StateFile())
	assert.Equal(t, "/srv/lcars/catalog.yaml", cfg.CatalogPath())
}

func TestSetDefaults_EnvOverride(t *testing.T) {
	t.Setenv("STACKCTL_DETECT_CONCURRENCY", "3")
	t.Setenv("STACKCTL_PATHS_DOCKER_DIR", "compose")

	v := viper.New()
	v.SetEnvPrefix("stackctl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Detect.Concurrency)
	assert.Equal(t, filepath.Join("compose", ".env"), cfg.EnvFile())
}
