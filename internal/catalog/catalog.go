package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/lcars-computer/stackctl/internal/model"
	"gopkg.in/yaml.v3"
)

// Version is the catalog document version this build understands.
const Version = 1

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the ordered, immutable registry of deployable services.
type Catalog struct {
	services []*model.ServiceDescriptor
	index    map[string]*model.ServiceDescriptor
}

type catalogFile struct {
	Version  int                        `yaml:"version"`
	Services []*model.ServiceDescriptor `yaml:"services"`
}

// New builds a catalog, failing on empty or duplicate keys and on descriptors
// that could never be probed or deployed.
func New(descriptors ...*model.ServiceDescriptor) (*Catalog, error) {
	c := &Catalog{index: make(map[string]*model.ServiceDescriptor, len(descriptors))}
	for i, d := range descriptors {
		if d == nil || d.Key == "" {
			return nil, fmt.Errorf("catalog entry %d: key is required", i)
		}
		if _, dup := c.index[d.Key]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate service key %q", i, d.Key)
		}
		if err := check(d); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", d.Key, err)
		}
		c.services = append(c.services, d)
		c.index[d.Key] = d
	}
	for _, d := range c.services {
		for _, dep := range d.DependsOn {
			if _, ok := c.index[dep]; !ok {
				return nil, fmt.Errorf("catalog entry %q: depends on unknown service %q", d.Key, dep)
			}
		}
	}
	return c, nil
}

func check(d *model.ServiceDescriptor) error {
	kind, err := model.ParseHealthCheckKind(string(d.HealthCheck.Kind))
	if err != nil {
		return err
	}
	d.HealthCheck.Kind = kind
	if d.DefaultHost == "" {
		return fmt.Errorf("default_host is required")
	}
	if !model.ValidPort(d.DefaultPort) {
		return fmt.Errorf("default_port %d out of range", d.DefaultPort)
	}
	if d.DisplayName == "" {
		d.DisplayName = d.Key
	}
	return nil
}

// Parse decodes a versioned catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("unsupported catalog version %d (want %d)", f.Version, Version)
	}
	return New(f.Services...)
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// List returns descriptors in insertion order.
func (c *Catalog) List() []*model.ServiceDescriptor {
	out := make([]*model.ServiceDescriptor, len(c.services))
	copy(out, c.services)
	return out
}

// Get looks up a descriptor by key.
func (c *Catalog) Get(key string) (*model.ServiceDescriptor, bool) {
	d, ok := c.index[key]
	return d, ok
}

// Keys returns service keys in insertion order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.services))
	for i, d := range c.services {
		keys[i] = d.Key
	}
	return keys
}

// NewDeployment seeds a deployment context from catalog defaults.
func (c *Catalog) NewDeployment() *model.Deployment {
	return model.NewDeployment(c.services)
}
