package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceKeyForContainer(t *testing.T) {
	tests := []struct {
		name     string
		image    string
		expected string
	}{
		{"LCARS-homeassistant", "ghcr.io/home-assistant/home-assistant:stable", "homeassistant"},
		{"/LCARS-postgres", "postgres:16-alpine", "postgres"},
		{"LCARS-open-webui", "ghcr.io/open-webui/open-webui:ollama", "open-webui"},
		{"LCARS-ollama", "ollama/ollama:latest", "ollama"},
		{"LCARS-openwakeword", "rhasspy/wyoming-openwakeword", "openwakeword"},
		{"cache", "valkey/valkey:8", "redis"},
		{"db", "pgvector/pgvector:pg16", "postgres"},
		{"traefik", "traefik:v3", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ServiceKeyForContainer(tt.name, tt.image))
		})
	}
}
