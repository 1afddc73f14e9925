package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lcars-computer/stackctl/internal/catalog"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/lcars-computer/stackctl/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	overrides, err := parseOverrides(
		[]string{"postgres=db.lan:5433", "Ollama=https://llm.example.com"},
		[]string{"homeassistant=18123", "redis"},
		[]string{"postgres"},
	)
	require.NoError(t, err)
	require.Len(t, overrides, 5)

	pg := overrides[0]
	assert.Equal(t, "postgres", pg.Key)
	assert.True(t, *pg.UseExisting)
	assert.Equal(t, model.Endpoint{Host: "db.lan", Port: 5433}, *pg.Endpoint)

	ollama := overrides[1]
	assert.Equal(t, "ollama", ollama.Key)
	assert.Equal(t, model.Endpoint{Scheme: "https", Host: "llm.example.com"}, *ollama.Endpoint)

	ha := overrides[2]
	assert.False(t, *ha.UseExisting)
	assert.Equal(t, 18123, *ha.ExternalPort)

	assert.Nil(t, overrides[3].ExternalPort)

	force := overrides[4]
	assert.Equal(t, "postgres", force.Key)
	assert.True(t, *force.Force)
	assert.Nil(t, force.UseExisting)
}

func TestParseOverridesErrors(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		fresh    []string
		force    []string
		kind     error
	}{
		{name: "missing value", existing: []string{"postgres"}},
		{name: "empty host", existing: []string{"postgres= "}},
		{name: "bad scheme", existing: []string{"ollama=ftp://x"}, kind: model.ErrInvalidHostname},
		{name: "zero port", existing: []string{"postgres=db.lan:0"}, kind: model.ErrInvalidPort},
		{name: "port too large", existing: []string{"ollama=https://llm.lan:65536"}, kind: model.ErrInvalidPort},
		{name: "bad fresh port", fresh: []string{"redis=99999"}, kind: model.ErrInvalidPort},
		{name: "non numeric port", fresh: []string{"redis=abc"}, kind: model.ErrInvalidPort},
		{name: "both modes", existing: []string{"redis=cache.lan"}, fresh: []string{"redis"}},
		{name: "empty force", force: []string{" "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOverrides(tt.existing, tt.fresh, tt.force)
			require.Error(t, err)
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 2, ExitCode(&exitError{code: 2, err: errors.New("critical")}))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("wrapped: %w", &exitError{code: 2, err: errors.New("critical")})))
}

func TestCachedResults(t *testing.T) {
	results := validate.Results{{Service: "redis", Valid: true}}
	got := cachedResults(results).ValidateAll(context.Background(), nil)
	assert.Equal(t, results, got)
}

func TestSuggestionFor(t *testing.T) {
	assert.Contains(t, suggestionFor(model.KindUnreachable), "--force")
	assert.Contains(t, suggestionFor(model.KindModeNotAllowed), "--fresh")
	assert.Empty(t, suggestionFor(model.KindMalformedConfig))
}

func TestApplyOverrides(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	d := cat.NewDeployment()

	overrides, err := parseOverrides([]string{"postgres=db.lan:5433"}, []string{"homeassistant=18123"}, []string{"postgres"})
	require.NoError(t, err)
	require.NoError(t, applyOverrides(d, overrides))

	pg, _ := d.Get("postgres")
	assert.Equal(t, model.Existing{Endpoint: model.Endpoint{Host: "db.lan", Port: 5433}}, pg.Mode())
	assert.True(t, pg.ForceOverride)

	ha, _ := d.Get("homeassistant")
	assert.Equal(t, model.Fresh{ExternalPort: 18123, InternalPort: 8123}, ha.Mode())

	err = applyOverrides(d, []model.Override{{Key: "mysql", UseExisting: model.Ptr(true)}})
	assert.ErrorIs(t, err, model.ErrUnknownService)
}

func TestForceFlagsFor(t *testing.T) {
	results := validate.Results{
		{Service: "homeassistant", Valid: true},
		{Service: "postgres", Kind: model.KindUnreachable},
		{Service: "n8n", Kind: model.KindModeNotAllowed},
		{Service: "redis", Kind: model.KindUnreachable},
	}
	assert.Equal(t, "--force postgres --force redis", forceFlagsFor(results))
	assert.Empty(t, forceFlagsFor(validate.Results{{Service: "n8n", Kind: model.KindInvalidPort}}))
}

func TestPrintValidationNamesForceFlags(t *testing.T) {
	err := printValidation(validate.Results{
		{Service: "redis", Valid: true, Probed: true},
		{Service: "postgres", Endpoint: "db.lan:5432", Kind: model.KindUnreachable, Detail: "connection refused"},
	})
	assert.ErrorIs(t, err, model.ErrValidationFailed)
	assert.Contains(t, err.Error(), "1 of 2 services invalid")
	assert.Contains(t, err.Error(), "--force postgres")
	assert.NoError(t, printValidation(validate.Results{{Service: "redis", Valid: true}}))
}
