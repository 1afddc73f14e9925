package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetProber_Dispatch(t *testing.T) {
	l, port := listen(t)
	defer l.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewProber(Options{})

	tcp := &model.ServiceDescriptor{Key: "postgres", HealthCheck: model.HealthCheck{Kind: model.HealthCheckTCP}}
	r := p.Probe(context.Background(), tcp, model.Endpoint{Host: "127.0.0.1", Port: port})
	assert.True(t, r.OK)
	assert.Equal(t, "postgres", r.Name)

	web := &model.ServiceDescriptor{Key: "homeassistant", HealthCheck: model.HealthCheck{Kind: model.HealthCheckHTTP, Path: "/api/"}}
	r = p.Probe(context.Background(), web, serverEndpoint(t, srv))
	assert.True(t, r.OK)
	assert.Equal(t, "homeassistant", r.Name)
}

func TestNetProber_NoneIsSkipped(t *testing.T) {
	p := NewProber(Options{})
	d := &model.ServiceDescriptor{Key: "sidecar", HealthCheck: model.HealthCheck{Kind: model.HealthCheckNone}}

	r := p.Probe(context.Background(), d, model.Endpoint{Host: "203.0.113.1", Port: 1})
	require.NotNil(t, r)
	assert.True(t, r.Skipped())
	assert.False(t, r.OK)
	assert.Nil(t, p.CheckerFor(d))
}
