package model

import "fmt"

// HealthCheckKind selects the probe strategy for a service.
type HealthCheckKind string

const (
	HealthCheckHTTP HealthCheckKind = "http"
	HealthCheckTCP  HealthCheckKind = "tcp"
	HealthCheckNone HealthCheckKind = "none"
)

// ParseHealthCheckKind maps a catalog value onto a HealthCheckKind.
func ParseHealthCheckKind(s string) (HealthCheckKind, error) {
	switch HealthCheckKind(s) {
	case HealthCheckHTTP, HealthCheckTCP, HealthCheckNone:
		return HealthCheckKind(s), nil
	case "":
		return HealthCheckNone, nil
	}
	return "", fmt.Errorf("unknown health check kind %q (want http, tcp or none)", s)
}

// DeepCheckKind names an optional protocol-level check used by the health report.
type DeepCheckKind string

const (
	DeepCheckNone     DeepCheckKind = ""
	DeepCheckRedis    DeepCheckKind = "redis"
	DeepCheckPostgres DeepCheckKind = "postgres"
)

// HealthCheck describes how liveness of a service is established.
type HealthCheck struct {
	Kind HealthCheckKind `yaml:"kind"`
	Path string          `yaml:"path,omitempty"`
}

// ServiceDescriptor is an immutable catalog entry. ServiceConfig values share
// a pointer to it and never modify it.
type ServiceDescriptor struct {
	Key            string        `yaml:"key"`
	DisplayName    string        `yaml:"name"`
	Description    string        `yaml:"description,omitempty"`
	DefaultHost    string        `yaml:"default_host"`
	DefaultPort    int           `yaml:"default_port"`
	CanUseExisting bool          `yaml:"can_use_existing"`
	Required       bool          `yaml:"required"`
	Container      string        `yaml:"container,omitempty"`
	DependsOn      []string      `yaml:"depends_on,omitempty"`
	HealthCheck    HealthCheck   `yaml:"health_check"`
	Deep           DeepCheckKind `yaml:"deep_check,omitempty"`
}
