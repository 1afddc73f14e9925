package cmd

import (
	"testing"

	"github.com/lcars-computer/stackctl/internal/detect"
	"github.com/stretchr/testify/assert"
)

func TestContainerSummary(t *testing.T) {
	assert.Empty(t, containerSummary(nil))
	got := containerSummary([]detect.Container{
		{Name: "LCARS-redis", State: "running"},
		{Name: "old-redis", State: "exited"},
	})
	assert.Equal(t, "LCARS-redis (running), old-redis (exited)", got)
}
