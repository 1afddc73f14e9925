package model

import "time"

// HealthResult is the outcome of the most recent validation probe.
type HealthResult struct {
	OK        bool
	Error     string
	CheckedAt time.Time
}

// Detection is what the detector found for one service. Nil fields mean
// nothing was found.
type Detection struct {
	Host *string
	Port *int
}

// Found reports whether the detection produced an endpoint.
func (d Detection) Found() bool {
	return d.Host != nil && d.Port != nil
}

// ServiceConfig is the per-run resolved state of one catalog service.
type ServiceConfig struct {
	Descriptor *ServiceDescriptor

	DetectedHost *string
	DetectedPort *int

	CustomHost   *string
	CustomScheme string
	CustomPort   *int

	UseExisting   bool
	ExternalPort  *int
	ForceOverride bool

	LastHealth *HealthResult
}

// NewServiceConfig seeds a config from catalog defaults: fresh deployment on
// the descriptor's default port.
func NewServiceConfig(d *ServiceDescriptor) *ServiceConfig {
	return &ServiceConfig{Descriptor: d}
}

func (c *ServiceConfig) Key() string {
	return c.Descriptor.Key
}

// EffectiveHost applies custom > detected > default.
func (c *ServiceConfig) EffectiveHost() string {
	if c.CustomHost != nil {
		return *c.CustomHost
	}
	if c.DetectedHost != nil {
		return *c.DetectedHost
	}
	return c.Descriptor.DefaultHost
}

// EffectivePort applies custom > detected > default.
func (c *ServiceConfig) EffectivePort() int {
	if c.CustomPort != nil {
		return *c.CustomPort
	}
	if c.DetectedPort != nil {
		return *c.DetectedPort
	}
	return c.Descriptor.DefaultPort
}

// EffectiveEndpoint is the only way the rest of the tool reads a connection target.
func (c *ServiceConfig) EffectiveEndpoint() Endpoint {
	return Endpoint{
		Scheme: c.CustomScheme,
		Host:   c.EffectiveHost(),
		Port:   c.EffectivePort(),
	}
}

// EffectiveExternalPort is the host port a fresh deployment is published on.
func (c *ServiceConfig) EffectiveExternalPort() int {
	if c.ExternalPort != nil {
		return *c.ExternalPort
	}
	return c.Descriptor.DefaultPort
}

// SetDetected replaces any previous detection result.
func (c *ServiceConfig) SetDetected(d Detection) {
	c.DetectedHost = nil
	c.DetectedPort = nil
	if d.Found() {
		host, port := *d.Host, *d.Port
		c.DetectedHost = &host
		c.DetectedPort = &port
	}
}

// SetCustom stores an explicit endpoint. A zero port leaves the custom port untouched.
func (c *ServiceConfig) SetCustom(ep Endpoint) {
	host := ep.Host
	c.CustomHost = &host
	c.CustomScheme = ep.Scheme
	if ep.Port != 0 {
		port := ep.Port
		c.CustomPort = &port
	}
}

// Mode resolves the deployment decision into its tagged variant.
func (c *ServiceConfig) Mode() Mode {
	if c.UseExisting {
		return Existing{Endpoint: c.EffectiveEndpoint()}
	}
	return Fresh{
		ExternalPort: c.EffectiveExternalPort(),
		InternalPort: c.Descriptor.DefaultPort,
	}
}

// Mode is either Existing or Fresh.
type Mode interface {
	isMode()
}

// Existing binds the service to externally running infrastructure.
type Existing struct {
	Endpoint Endpoint
}

// Fresh deploys a new container publishing ExternalPort on the host.
type Fresh struct {
	ExternalPort int
	InternalPort int
}

func (Existing) isMode() {}
func (Fresh) isMode()    {}

// Remapped reports whether the host port differs from the in-network port.
func (f Fresh) Remapped() bool {
	return f.ExternalPort != f.InternalPort
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
