package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lcars-computer/stackctl/internal/compose"
	"github.com/lcars-computer/stackctl/internal/model"
	yamlv3 "gopkg.in/yaml.v3"
)

// Compose merge tags understood by docker compose v2.24+.
const (
	tagOverride = "!override"
	tagReset    = "!reset"
)

// DisabledProfile is assigned to services that reuse existing infrastructure.
const DisabledProfile = "disabled"

// OverrideRenderer builds docker-compose.override.yml.
type OverrideRenderer struct {
	// ReplacePorts tags remapped port lists with !override so the base
	// file's default binding is dropped rather than merged.
	ReplacePorts bool
	// Project supplies depends_on edges; the catalog is used when nil or
	// when the project does not define a service.
	Project *compose.Project
}

// Render emits one entry per service that needs a directive.
func (r *OverrideRenderer) Render(d *model.Deployment) ([]byte, error) {
	disabled := make(map[string]bool)
	for _, sc := range d.Existing() {
		disabled[sc.Key()] = true
	}

	services := &yamlv3.Node{Kind: yamlv3.MappingNode}
	for _, sc := range d.Services() {
		entry := r.serviceEntry(sc, disabled)
		if entry == nil {
			continue
		}
		services.Content = append(services.Content, scalar(sc.Key()), entry)
	}
	if len(services.Content) == 0 {
		services.Style = yamlv3.FlowStyle
	}

	root := &yamlv3.Node{Kind: yamlv3.MappingNode, Content: []*yamlv3.Node{scalar("services"), services}}
	doc := &yamlv3.Node{Kind: yamlv3.DocumentNode, Content: []*yamlv3.Node{root}}

	var body bytes.Buffer
	enc := yamlv3.NewEncoder(&body)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding override document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding override document: %w", err)
	}

	var out bytes.Buffer
	writeComment(&out, GeneratedHeader)
	out.WriteString("\n")
	out.Write(body.Bytes())
	if existing := d.Existing(); len(existing) > 0 {
		out.WriteString("\n")
		lines := []string{"Services using existing infrastructure:"}
		for _, sc := range existing {
			lines = append(lines, fmt.Sprintf("%s: %s", sc.Key(), sc.EffectiveEndpoint()))
		}
		writeComment(&out, strings.Join(lines, "\n"))
	}
	return out.Bytes(), nil
}

func (r *OverrideRenderer) serviceEntry(sc *model.ServiceConfig, disabled map[string]bool) *yamlv3.Node {
	entry := &yamlv3.Node{Kind: yamlv3.MappingNode}

	switch m := sc.Mode().(type) {
	case model.Existing:
		entry.Content = append(entry.Content, scalar("profiles"), sequence("", scalar(DisabledProfile)))
		return entry
	case model.Fresh:
		if m.Remapped() {
			tag := ""
			if r.ReplacePorts {
				tag = tagOverride
			}
			binding := model.PortBinding{HostPort: m.ExternalPort, ContainerPort: m.InternalPort}
			port := scalar(binding.ComposeShort())
			port.Style = yamlv3.DoubleQuotedStyle
			entry.Content = append(entry.Content, scalar("ports"), sequence(tag, port))
		}
	}

	deps := r.dependencies(sc)
	var remaining []*yamlv3.Node
	dropped := false
	for _, dep := range deps {
		if disabled[dep] {
			dropped = true
			continue
		}
		remaining = append(remaining, scalar(dep))
	}
	if dropped {
		if len(remaining) == 0 {
			reset := sequence(tagReset)
			reset.Style = yamlv3.FlowStyle
			entry.Content = append(entry.Content, scalar("depends_on"), reset)
		} else {
			entry.Content = append(entry.Content, scalar("depends_on"), sequence(tagOverride, remaining...))
		}
	}

	if len(entry.Content) == 0 {
		return nil
	}
	return entry
}

func (r *OverrideRenderer) dependencies(sc *model.ServiceConfig) []string {
	if r.Project.Has(sc.Key()) {
		return r.Project.DependsOn(sc.Key())
	}
	return sc.Descriptor.DependsOn
}

func scalar(v string) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: v}
}

func sequence(tag string, items ...*yamlv3.Node) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: tag, Content: items}
}

func writeComment(b *bytes.Buffer, text string) {
	for _, line := range strings.Split(text, "\n") {
		b.WriteString("# " + line + "\n")
	}
}
