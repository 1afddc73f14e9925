package wizard

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfigMinimal(t *testing.T) {
	out, err := GenerateConfig(InitAnswers{})
	require.NoError(t, err)

	assert.Contains(t, out, "project_dir: .")
	assert.Contains(t, out, "docker_dir: docker")
	assert.Contains(t, out, "compose_file: docker-compose.yml")
	assert.Contains(t, out, "concurrency: 8")
	assert.Contains(t, out, "replace_ports: false")
	assert.Contains(t, out, "level: warn")
	assert.NotContains(t, out, "catalog:")
}

func TestGenerateConfigFull(t *testing.T) {
	answers := InitAnswers{
		ProjectDir:   "/srv/lcars",
		DockerDir:    "stack",
		ComposeFile:  "compose.yaml",
		CatalogPath:  "catalog.yaml",
		Concurrency:  4,
		ReplacePorts: true,
		LogLevel:     "debug",
	}

	out, err := GenerateConfig(answers)
	require.NoError(t, err)

	assert.Contains(t, out, "catalog:\n  path: catalog.yaml")
	assert.Contains(t, out, "replace_ports: true")

	// The generated file must be readable by the config loader.
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	assert.Equal(t, "/srv/lcars", v.GetString("project_dir"))
	assert.Equal(t, "stack", v.GetString("paths.docker_dir"))
	assert.Equal(t, 4, v.GetInt("detect.concurrency"))
	assert.True(t, v.GetBool("generate.replace_ports"))
	assert.Equal(t, "debug", v.GetString("log.level"))
}
