package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePortBinding(t *testing.T) {
	tests := []struct {
		input    string
		expected PortBinding
	}{
		{"8123", PortBinding{HostPort: 8123, ContainerPort: 8123, Protocol: "tcp"}},
		{"18123:8123", PortBinding{HostPort: 18123, ContainerPort: 8123, Protocol: "tcp"}},
		{"127.0.0.1:5433:5432", PortBinding{HostIP: "127.0.0.1", HostPort: 5433, ContainerPort: 5432, Protocol: "tcp"}},
		{"10300:10300/udp", PortBinding{HostPort: 10300, ContainerPort: 10300, Protocol: "udp"}},
		{"0.0.0.0:11434->11434/tcp", PortBinding{HostIP: "0.0.0.0", HostPort: 11434, ContainerPort: 11434, Protocol: "tcp"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePortBinding(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParsePortBindingInvalid(t *testing.T) {
	for _, in := range []string{"abc", "80:http", ":::8123->8123/tcp"} {
		_, err := ParsePortBinding(in)
		assert.Error(t, err, in)
	}
}

func TestPortBindingString(t *testing.T) {
	tests := []struct {
		pb       PortBinding
		expected string
	}{
		{PortBinding{HostPort: 8123, ContainerPort: 8123, Protocol: "tcp"}, "8123"},
		{PortBinding{HostPort: 18123, ContainerPort: 8123, Protocol: "tcp"}, "18123→8123"},
		{PortBinding{HostPort: 10300, ContainerPort: 10300, Protocol: "udp"}, "10300/udp"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pb.String())
		})
	}
}

func TestPortBindingComposeShort(t *testing.T) {
	assert.Equal(t, "18123:8123", PortBinding{HostPort: 18123, ContainerPort: 8123}.ComposeShort())
	assert.Equal(t, "127.0.0.1:5433:5432", PortBinding{HostIP: "127.0.0.1", HostPort: 5433, ContainerPort: 5432, Protocol: "tcp"}.ComposeShort())
}

func TestValidPort(t *testing.T) {
	assert.False(t, ValidPort(0))
	assert.True(t, ValidPort(1))
	assert.True(t, ValidPort(65535))
	assert.False(t, ValidPort(65536))
	assert.False(t, ValidPort(-1))
}
