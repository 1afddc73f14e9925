package render

import (
	"strconv"

	"github.com/lcars-computer/stackctl/internal/model"
)

// EnvVar is one KEY=VALUE pair of the overlay.
type EnvVar struct {
	Key   string
	Value string
}

// EnvMapping describes how a service feeds the overlay. Existing returns the
// variables pointing the stack at external infrastructure. Fresh lists the
// in-stack defaults restored when the service is deployed again; they only
// replace keys already present in the file.
type EnvMapping struct {
	Existing func(ep model.Endpoint) []EnvVar
	Fresh    []EnvVar
}

// EnvMappings is keyed by catalog service key. Services without an entry never
// touch the overlay.
var EnvMappings = map[string]EnvMapping{
	"homeassistant": {
		Existing: urlVar("HA_URL"),
	},
	"ollama": {
		Existing: urlVar("OLLAMA_BASE_URL"),
		Fresh:    []EnvVar{{"OLLAMA_BASE_URL", "http://ollama:11434"}},
	},
	"postgres": {
		Existing: hostPortVars("DB_POSTGRESDB_HOST", "DB_POSTGRESDB_PORT"),
		Fresh:    []EnvVar{{"DB_POSTGRESDB_HOST", "postgres"}, {"DB_POSTGRESDB_PORT", "5432"}},
	},
	"redis": {
		Existing: hostPortVars("QUEUE_BULL_REDIS_HOST", "QUEUE_BULL_REDIS_PORT"),
		Fresh:    []EnvVar{{"QUEUE_BULL_REDIS_HOST", "redis"}, {"QUEUE_BULL_REDIS_PORT", "6379"}},
	},
}

func urlVar(key string) func(model.Endpoint) []EnvVar {
	return func(ep model.Endpoint) []EnvVar {
		return []EnvVar{{key, ep.BaseURL()}}
	}
}

func hostPortVars(hostKey, portKey string) func(model.Endpoint) []EnvVar {
	return func(ep model.Endpoint) []EnvVar {
		return []EnvVar{{hostKey, ep.Host}, {portKey, strconv.Itoa(ep.Port)}}
	}
}
