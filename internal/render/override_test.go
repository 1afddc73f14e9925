package render

import (
	"strings"
	"testing"

	"github.com/lcars-computer/stackctl/internal/compose"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"
)

// lookup walks a mapping node by keys.
func lookup(t *testing.T, n *yamlv3.Node, keys ...string) *yamlv3.Node {
	t.Helper()
	if n.Kind == yamlv3.DocumentNode {
		n = n.Content[0]
	}
	for _, k := range keys {
		require.Equal(t, yamlv3.MappingNode, n.Kind, "looking up %q", k)
		var next *yamlv3.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == k {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil
		}
		n = next
	}
	return n
}

func values(n *yamlv3.Node) []string {
	var out []string
	for _, c := range n.Content {
		out = append(out, c.Value)
	}
	return out
}

func renderOverride(t *testing.T, r *OverrideRenderer, d *model.Deployment) (string, *yamlv3.Node) {
	t.Helper()
	out, err := r.Render(d)
	require.NoError(t, err)
	var doc yamlv3.Node
	require.NoError(t, yamlv3.Unmarshal(out, &doc))
	return string(out), &doc
}

func TestOverride_NoDirectives(t *testing.T) {
	out, doc := renderOverride(t, &OverrideRenderer{ReplacePorts: true}, deployment(t))

	assert.True(t, strings.HasPrefix(out, "# Generated by stackctl"))
	services := lookup(t, doc, "services")
	require.NotNil(t, services)
	assert.Empty(t, services.Content)
	assert.NotContains(t, out, "existing infrastructure")
}

func TestOverride_ExistingDisabled(t *testing.T) {
	d := deployment(t)
	require.NoError(t, d.ApplyOverride(model.Override{
		Key:         "postgres",
		UseExisting: model.Ptr(true),
		Endpoint:    &model.Endpoint{Host: "db.example.com", Port: 5432},
		Force:       model.Ptr(true),
	}))

	out, doc := renderOverride(t, &OverrideRenderer{ReplacePorts: true}, d)

	profiles := lookup(t, doc, "services", "postgres", "profiles")
	require.NotNil(t, profiles)
	assert.Equal(t, []string{DisabledProfile}, values(profiles))
	assert.Contains(t, out, "# postgres: db.example.com:5432")
	assert.Nil(t, lookup(t, doc, "services", "homeassistant"))
}

func TestOverride_PortRemap(t *testing.T) {
	d := deployment(t)
	require.NoError(t, d.ApplyOverride(model.Override{Key: "homeassistant", ExternalPort: model.Ptr(18123)}))

	out, doc := renderOverride(t, &OverrideRenderer{ReplacePorts: true}, d)

	ports := lookup(t, doc, "services", "homeassistant", "ports")
	require.NotNil(t, ports)
	assert.Equal(t, "!override", ports.Tag)
	assert.Equal(t, []string{"18123:8123"}, values(ports))
	assert.Contains(t, out, `"18123:8123"`)
	assert.Nil(t, lookup(t, doc, "services", "homeassistant", "profiles"))
}

func TestOverride_PortRemapMerge(t *testing.T) {
	d := deployment(t)
	require.NoError(t, d.ApplyOverride(model.Override{Key: "ollama", ExternalPort: model.Ptr(21434)}))

	_, doc := renderOverride(t, &OverrideRenderer{ReplacePorts: false}, d)

	ports := lookup(t, doc, "services", "ollama", "ports")
	require.NotNil(t, ports)
	assert.NotEqual(t, "!override", ports.Tag)
	assert.Equal(t, []string{"21434:11434"}, values(ports))
}

func TestOverride_SamePortIsOmitted(t *testing.T) {
	d := deployment(t)
	require.NoError(t, d.ApplyOverride(model.Override{Key: "homeassistant", ExternalPort: model.Ptr(8123)}))

	_, doc := renderOverride(t, &OverrideRenderer{ReplacePorts: true}, d)
	assert.Nil(t, lookup(t, doc, "services", "homeassistant"))
}

func TestOverride_DependsOnRewrite(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		wantTag  string
		want     []string
	}{
		{"postgres reused", []string{"postgres"}, "!override", []string{"redis"}},
		{"redis reused", []string{"redis"}, "!override", []string{"postgres"}},
		{"both reused", []string{"postgres", "redis"}, "!reset", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := deployment(t)
			for _, key := range tt.existing {
				require.NoError(t, d.ApplyOverride(model.Override{Key: key, UseExisting: model.Ptr(true), Force: model.Ptr(true)}))
			}

			out, doc := renderOverride(t, &OverrideRenderer{ReplacePorts: true}, d)

			deps := lookup(t, doc, "services", "n8n", "depends_on")
			require.NotNil(t, deps, out)
			assert.Equal(t, tt.wantTag, deps.Tag)
			assert.Equal(t, tt.want, values(deps))
			if tt.wantTag == "!reset" {
				assert.Contains(t, out, "depends_on: !reset []")
			}
		})
	}
}

func TestOverride_DependsOnFromProject(t *testing.T) {
	d := deployment(t)
	require.NoError(t, d.ApplyOverride(model.Override{Key: "ollama", UseExisting: model.Ptr(true), Force: model.Ptr(true)}))

	project := &compose.Project{Services: map[string]*compose.Service{
		"open-webui": {Name: "open-webui", DependsOn: []string{"ollama", "pipelines"}},
	}}

	_, doc := renderOverride(t, &OverrideRenderer{ReplacePorts: true, Project: project}, d)

	deps := lookup(t, doc, "services", "open-webui", "depends_on")
	require.NotNil(t, deps)
	assert.Equal(t, []string{"pipelines"}, values(deps))
}

func TestOverride_Deterministic(t *testing.T) {
	d := deployment(t)
	require.NoError(t, d.ApplyOverride(model.Override{Key: "redis", UseExisting: model.Ptr(true), Force: model.Ptr(true)}))
	require.NoError(t, d.ApplyOverride(model.Override{Key: "homeassistant", ExternalPort: model.Ptr(18123)}))

	r := &OverrideRenderer{ReplacePorts: true}
	first, err := r.Render(d)
	require.NoError(t, err)
	second, err := r.Render(d)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
