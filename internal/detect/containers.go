package detect

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/lcars-computer/stackctl/internal/model"
)

// Container is one docker container as reported by `docker ps`.
type Container struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Image   string              `json:"image"`
	State   string              `json:"state"`
	Status  string              `json:"status"`
	Ports   []model.PortBinding `json:"ports,omitempty"`
	Service string              `json:"service,omitempty"`
}

// Running reports whether the container is up.
func (c Container) Running() bool {
	return c.State == "running"
}

// CommandRunner runs an external command and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands on the local host.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// ContainerScanner lists docker containers and maps them to catalog keys.
type ContainerScanner struct {
	Run CommandRunner
}

// psLine mirrors the fields of `docker ps --format {{json .}}`.
type psLine struct {
	ID     string `json:"ID"`
	Names  string `json:"Names"`
	Image  string `json:"Image"`
	State  string `json:"State"`
	Status string `json:"Status"`
	Ports  string `json:"Ports"`
}

// Scan returns every container, running or stopped.
func (s *ContainerScanner) Scan(ctx context.Context) ([]Container, error) {
	run := s.Run
	if run == nil {
		run = ExecRunner
	}

	out, err := run(ctx, "docker", "ps", "-a", "--format", "{{json .}}")
	if err != nil {
		return nil, fmt.Errorf("running docker ps: %w", err)
	}
	return ParseContainers(out)
}

// ParseContainers decodes one JSON object per line.
func ParseContainers(data []byte) ([]Container, error) {
	var containers []Container
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var pl psLine
		if err := json.Unmarshal(line, &pl); err != nil {
			return nil, fmt.Errorf("parsing docker ps output: %w", err)
		}
		c := Container{
			ID:     pl.ID,
			Name:   strings.TrimPrefix(pl.Names, "/"),
			Image:  pl.Image,
			State:  strings.ToLower(pl.State),
			Status: pl.Status,
			Ports:  parsePublished(pl.Ports),
		}
		c.Service = model.ServiceKeyForContainer(c.Name, c.Image)
		containers = append(containers, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return containers, nil
}

// ByService groups containers under the catalog key they run.
func ByService(containers []Container) map[string][]Container {
	out := make(map[string][]Container)
	for _, c := range containers {
		if c.Service == "" {
			continue
		}
		out[c.Service] = append(out[c.Service], c)
	}
	return out
}

// parsePublished keeps published ports only, dropping the IPv6 duplicate docker
// lists next to each IPv4 binding.
func parsePublished(s string) []model.PortBinding {
	var out []model.PortBinding
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, "->") {
			continue
		}
		if strings.HasPrefix(part, "[::]:") || strings.HasPrefix(part, ":::") {
			part = part[strings.LastIndex(part[:strings.Index(part, "->")], ":")+1:]
		}
		pb, err := model.ParsePortBinding(part)
		if err != nil {
			continue
		}
		pb.HostIP = ""
		key := pb.ComposeShort()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, pb)
	}
	return out
}
