package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDescriptor() *ServiceDescriptor {
	return &ServiceDescriptor{
		Key:            "postgres",
		DisplayName:    "PostgreSQL",
		DefaultHost:    "localhost",
		DefaultPort:    5432,
		CanUseExisting: true,
		HealthCheck:    HealthCheck{Kind: HealthCheckTCP},
	}
}

func TestEffectiveEndpointPriority(t *testing.T) {
	// Every combination of detected/custom presence for host and port.
	for mask := 0; mask < 16; mask++ {
		detHost, detPort := mask&1 != 0, mask&2 != 0
		cusHost, cusPort := mask&4 != 0, mask&8 != 0

		t.Run(fmt.Sprintf("mask=%04b", mask), func(t *testing.T) {
			sc := NewServiceConfig(testDescriptor())
			if detHost {
				sc.DetectedHost = Ptr("detected.lan")
			}
			if detPort {
				sc.DetectedPort = Ptr(15432)
			}
			if cusHost {
				sc.CustomHost = Ptr("db.example.com")
			}
			if cusPort {
				sc.CustomPort = Ptr(25432)
			}

			wantHost := "localhost"
			if detHost {
				wantHost = "detected.lan"
			}
			if cusHost {
				wantHost = "db.example.com"
			}
			wantPort := 5432
			if detPort {
				wantPort = 15432
			}
			if cusPort {
				wantPort = 25432
			}

			assert.Equal(t, wantHost, sc.EffectiveHost())
			assert.Equal(t, wantPort, sc.EffectivePort())
			assert.Equal(t, Endpoint{Host: wantHost, Port: wantPort}, sc.EffectiveEndpoint())
		})
	}
}

func TestSetDetectedClearsPrevious(t *testing.T) {
	sc := NewServiceConfig(testDescriptor())
	sc.SetDetected(Detection{Host: Ptr("localhost"), Port: Ptr(5432)})
	assert.Equal(t, "localhost", *sc.DetectedHost)

	sc.SetDetected(Detection{})
	assert.Nil(t, sc.DetectedHost)
	assert.Nil(t, sc.DetectedPort)
}

func TestSetCustomKeepsPortWhenAbsent(t *testing.T) {
	sc := NewServiceConfig(testDescriptor())
	sc.CustomPort = Ptr(6543)
	sc.SetCustom(Endpoint{Host: "db.lan"})
	assert.Equal(t, "db.lan", sc.EffectiveHost())
	assert.Equal(t, 6543, sc.EffectivePort())
}

func TestMode(t *testing.T) {
	sc := NewServiceConfig(testDescriptor())
	assert.Equal(t, Fresh{ExternalPort: 5432, InternalPort: 5432}, sc.Mode())
	assert.False(t, sc.Mode().(Fresh).Remapped())

	sc.ExternalPort = Ptr(15432)
	assert.True(t, sc.Mode().(Fresh).Remapped())

	sc.UseExisting = true
	sc.CustomHost = Ptr("db.example.com")
	assert.Equal(t, Existing{Endpoint: Endpoint{Host: "db.example.com", Port: 5432}}, sc.Mode())
}
