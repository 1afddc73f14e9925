package model

import (
	"sort"
	"strings"
)

// containerPatterns maps container name/image substrings to catalog keys.
var containerPatterns = map[string]string{
	// Home Assistant
	"homeassistant":  "homeassistant",
	"home-assistant": "homeassistant",

	// Data
	"postgres": "postgres",
	"pgvector": "postgres",
	"redis":    "redis",
	"valkey":   "redis",

	// LLM
	"ollama":     "ollama",
	"open-webui": "open-webui",
	"openwebui":  "open-webui",

	// Automation
	"n8n": "n8n",

	// Wyoming voice services
	"whisper":      "whisper",
	"piper":        "piper",
	"openwakeword": "openwakeword",
	"wakeword":     "openwakeword",
}

// orderedPatterns lists patterns longest first so "open-webui" wins over
// shorter patterns that happen to appear in the same string.
var orderedPatterns = func() []string {
	out := make([]string, 0, len(containerPatterns))
	for p := range containerPatterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// ServiceKeyForContainer guesses which catalog service a container runs.
// The container name is consulted before the image because images such as
// ghcr.io/open-webui/open-webui:ollama mention more than one service.
func ServiceKeyForContainer(name, image string) string {
	name = strings.ToLower(strings.TrimPrefix(name, "/"))
	for _, p := range orderedPatterns {
		if strings.Contains(name, p) {
			return containerPatterns[p]
		}
	}
	image = strings.ToLower(image)
	for _, p := range orderedPatterns {
		if strings.Contains(image, p) {
			return containerPatterns[p]
		}
	}
	return ""
}
