// Package state persists accepted service decisions between runs.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lcars-computer/stackctl/internal/catalog"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/sirupsen/logrus"
)

// Version is the only persisted file version this build reads and writes.
const Version = "1.0"

// DefaultFilename is the state file name inside the docker directory.
const DefaultFilename = "deployment_config.json"

// Service is the persisted form of one ServiceConfig. Detected values and
// health results are never stored.
type Service struct {
	Name          string  `json:"name"`
	UseExisting   bool    `json:"use_existing"`
	CustomHost    *string `json:"custom_host"`
	CustomScheme  string  `json:"custom_scheme,omitempty"`
	CustomPort    *int    `json:"custom_port"`
	ExternalPort  *int    `json:"external_port"`
	ForceOverride bool    `json:"force_override"`
}

type file struct {
	Version  string             `json:"version"`
	Services map[string]Service `json:"services"`
}

// Save writes every service of d to path atomically, creating parent
// directories as needed.
func Save(d *model.Deployment, path string) error {
	f := file{Version: Version, Services: make(map[string]Service, len(d.Services()))}
	for _, sc := range d.Services() {
		f.Services[sc.Key()] = Service{
			Name:          sc.Descriptor.DisplayName,
			UseExisting:   sc.UseExisting,
			CustomHost:    sc.CustomHost,
			CustomScheme:  sc.CustomScheme,
			CustomPort:    sc.CustomPort,
			ExternalPort:  sc.ExternalPort,
			ForceOverride: sc.ForceOverride,
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return WriteFileAtomic(path, data, 0o644)
}

// Load reads a state file. A missing file returns an error wrapping
// os.ErrNotExist; a missing or unknown version or undecodable JSON returns a
// MalformedConfig error. Keys not in cat are logged and dropped.
func Load(path string, cat *catalog.Catalog, logger logrus.FieldLogger) (map[string]Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, malformed(path, "invalid JSON", err)
	}
	switch f.Version {
	case Version:
	case "":
		return nil, malformed(path, "missing version field", nil)
	default:
		return nil, malformed(path, fmt.Sprintf("unsupported version %q", f.Version), nil)
	}

	out := make(map[string]Service, len(f.Services))
	for key, svc := range f.Services {
		if _, ok := cat.Get(key); !ok {
			if logger != nil {
				logger.WithField("service", key).Warn("ignoring unknown service in saved configuration")
			}
			continue
		}
		out[key] = svc
	}
	return out, nil
}

func malformed(path, detail string, err error) error {
	return &model.ServiceError{Kind: model.KindMalformedConfig, Detail: path + ": " + detail, Err: err}
}

// Apply copies persisted decisions onto the deployment.
func Apply(d *model.Deployment, saved map[string]Service) {
	for _, sc := range d.Services() {
		svc, ok := saved[sc.Key()]
		if !ok {
			continue
		}
		sc.UseExisting = svc.UseExisting
		sc.CustomHost = svc.CustomHost
		sc.CustomScheme = svc.CustomScheme
		sc.CustomPort = svc.CustomPort
		sc.ExternalPort = svc.ExternalPort
		sc.ForceOverride = svc.ForceOverride
	}
}

// IsNotExist reports whether err means there is no saved state yet.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
