package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceErrorMessage(t *testing.T) {
	err := &ServiceError{
		Kind:     KindUnreachable,
		Service:  "postgres",
		Endpoint: "db.example.com:5432",
		Err:      errors.New("connection refused"),
	}
	assert.Equal(t, "postgres (db.example.com:5432): unreachable: connection refused", err.Error())
	assert.Equal(t, "malformed config", ErrMalformedConfig.Error())
}

func TestServiceErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("load: %w", &ServiceError{Kind: KindMalformedConfig, Detail: "missing version"})
	assert.True(t, errors.Is(err, ErrMalformedConfig))
	assert.False(t, errors.Is(err, ErrUnreachable))

	var se *ServiceError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "missing version", se.Detail)
}
