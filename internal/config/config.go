package config

import (
	"time"

	"github.com/lcars-computer/stackctl/internal/util"
	"github.com/spf13/viper"
)

type Config struct {
	ProjectDir string         `mapstructure:"project_dir"`
	Paths      Paths          `mapstructure:"paths"`
	Catalog    CatalogConfig  `mapstructure:"catalog"`
	Detect     DetectConfig   `mapstructure:"detect"`
	Generate   GenerateConfig `mapstructure:"generate"`
	Log        LogConfig      `mapstructure:"log"`
}

// Paths are relative to ProjectDir unless absolute.
type Paths struct {
	DockerDir    string `mapstructure:"docker_dir"`
	EnvFile      string `mapstructure:"env_file"`
	OverrideFile string `mapstructure:"override_file"`
	StateFile    string `mapstructure:"state_file"`
	ComposeFile  string `mapstructure:"compose_file"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"` // empty means the built-in catalog
}

type DetectConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	TCPTimeout  time.Duration `mapstructure:"tcp_timeout"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

type GenerateConfig struct {
	ReplacePorts bool `mapstructure:"replace_ports"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// Default returns the configuration used when no stackctl.yml exists.
func Default() *Config {
	return &Config{
		ProjectDir: ".",
		Paths: Paths{
			DockerDir:    "docker",
			EnvFile:      ".env",
			OverrideFile: "docker-compose.override.yml",
			StateFile:    "deployment_config.json",
			ComposeFile:  "docker-compose.yml",
		},
		Detect: DetectConfig{
			Concurrency: 8,
			TCPTimeout:  2 * time.Second,
			HTTPTimeout: 5 * time.Second,
		},
		Generate: GenerateConfig{ReplacePorts: true},
		Log:      LogConfig{Level: "warn", Format: "text"},
	}
}

// SetDefaults registers every key with v so STACKCTL_* environment variables
// are picked up by Unmarshal even when the file omits them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("project_dir", d.ProjectDir)
	v.SetDefault("paths.docker_dir", d.Paths.DockerDir)
	v.SetDefault("paths.env_file", d.Paths.EnvFile)
	v.SetDefault("paths.override_file", d.Paths.OverrideFile)
	v.SetDefault("paths.state_file", d.Paths.StateFile)
	v.SetDefault("paths.compose_file", d.Paths.ComposeFile)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("detect.concurrency", d.Detect.Concurrency)
	v.SetDefault("detect.tcp_timeout", d.Detect.TCPTimeout)
	v.SetDefault("detect.http_timeout", d.Detect.HTTPTimeout)
	v.SetDefault("generate.replace_ports", d.Generate.ReplacePorts)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals v over the defaults.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DockerDir is the resolved directory holding the compose files.
func (c *Config) DockerDir() string {
	return util.ResolvePath(c.ProjectDir, c.Paths.DockerDir)
}

// EnvFile is the resolved .env overlay path.
func (c *Config) EnvFile() string {
	return util.ResolvePath(c.DockerDir(), c.Paths.EnvFile)
}

// OverrideFile is the resolved compose override path.
func (c *Config) OverrideFile() string {
	return util.ResolvePath(c.DockerDir(), c.Paths.OverrideFile)
}

// StateFile is the resolved persisted-configuration path.
func (c *Config) StateFile() string {
	return util.ResolvePath(c.DockerDir(), c.Paths.StateFile)
}

// ComposeFile is the resolved base compose path.
func (c *Config) ComposeFile() string {
	return util.ResolvePath(c.DockerDir(), c.Paths.ComposeFile)
}

// CatalogPath is the resolved operator catalog path, or empty.
func (c *Config) CatalogPath() string {
	if c.Catalog.Path == "" {
		return ""
	}
	return util.ResolvePath(c.ProjectDir, c.Catalog.Path)
}
