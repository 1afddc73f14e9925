// Package compose reads the stack's base docker-compose file.
package compose

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/compose-spec/compose-go/v2/cli"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/sirupsen/logrus"
	yamlv3 "gopkg.in/yaml.v3"
)

// Service is the part of a compose service the generator cares about.
type Service struct {
	Name          string
	Image         string
	ContainerName string
	DependsOn     []string
	Ports         []model.PortBinding
	Profiles      []string
}

// Project is a parsed base compose file.
type Project struct {
	Path     string
	Services map[string]*Service
}

// DependsOn returns the sorted dependencies of a service, or nil when the
// service is not defined in the project.
func (p *Project) DependsOn(name string) []string {
	if p == nil {
		return nil
	}
	svc, ok := p.Services[name]
	if !ok {
		return nil
	}
	return svc.DependsOn
}

// Has reports whether the project defines a service.
func (p *Project) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.Services[name]
	return ok
}

// Load parses path with compose-go, falling back to a plain YAML read when
// the full loader rejects the file (unset variables, unsupported extensions).
func Load(ctx context.Context, path string, logger logrus.FieldLogger) (*Project, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	opts, err := cli.NewProjectOptions(
		[]string{path},
		cli.WithDotEnv,
		cli.WithInterpolation(false),
		cli.WithName("stackctl"),
	)
	if err != nil {
		return nil, fmt.Errorf("project options: %w", err)
	}

	project, err := cli.ProjectFromOptions(ctx, opts)
	if err != nil {
		if logger != nil {
			logger.WithError(err).WithField("file", path).Debug("compose loader failed, using plain YAML")
		}
		return loadFallback(path)
	}
	return fromProject(project, path), nil
}

func fromProject(project *composetypes.Project, path string) *Project {
	p := &Project{Path: path, Services: make(map[string]*Service)}
	add := func(svc composetypes.ServiceConfig) {
		s := &Service{
			Name:          svc.Name,
			Image:         svc.Image,
			ContainerName: svc.ContainerName,
			Profiles:      svc.Profiles,
		}
		for _, port := range svc.Ports {
			hostPort, _ := strconv.Atoi(port.Published)
			s.Ports = append(s.Ports, model.PortBinding{
				HostIP:        port.HostIP,
				HostPort:      hostPort,
				ContainerPort: int(port.Target),
				Protocol:      port.Protocol,
			})
		}
		for dep := range svc.DependsOn {
			s.DependsOn = append(s.DependsOn, dep)
		}
		sort.Strings(s.DependsOn)
		p.Services[svc.Name] = s
	}
	for _, svc := range project.Services {
		add(svc)
	}
	// Services behind an inactive profile are still part of the graph.
	for _, svc := range project.DisabledServices {
		add(svc)
	}
	return p
}

func loadFallback(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := yamlv3.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml parse %s: %w", path, err)
	}

	p := &Project{Path: path, Services: make(map[string]*Service)}
	servicesMap, ok := raw["services"].(map[string]interface{})
	if !ok {
		return p, nil
	}

	for name, svcData := range servicesMap {
		svcMap, ok := svcData.(map[string]interface{})
		if !ok {
			continue
		}
		s := &Service{
			Name:          name,
			Image:         toString(svcMap["image"]),
			ContainerName: toString(svcMap["container_name"]),
			DependsOn:     parseNames(svcMap["depends_on"]),
			Profiles:      parseNames(svcMap["profiles"]),
			Ports:         parsePorts(svcMap["ports"]),
		}
		p.Services[name] = s
	}
	return p, nil
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// parseNames accepts both the list and the map form of depends_on.
func parseNames(raw interface{}) []string {
	var names []string
	switch v := raw.(type) {
	case []interface{}:
		for _, d := range v {
			names = append(names, fmt.Sprintf("%v", d))
		}
	case map[string]interface{}:
		for name := range v {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func parsePorts(raw interface{}) []model.PortBinding {
	var ports []model.PortBinding
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	for _, p := range list {
		pb, err := model.ParsePortBinding(fmt.Sprintf("%v", p))
		if err != nil {
			continue
		}
		ports = append(ports, pb)
	}
	return ports
}
