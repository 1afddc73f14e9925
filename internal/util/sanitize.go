package util

import (
	"regexp"
	"strings"
)

var nonKeyChars = regexp.MustCompile(`[^a-z0-9_-]`)

// SanitizeKey turns user input such as "Open WebUI" or "home.assistant" into
// the catalog key form ("open-webui", "home-assistant").
func SanitizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	return nonKeyChars.ReplaceAllString(s, "")
}

var plainEnvValue = regexp.MustCompile(`^[A-Za-z0-9_./:@%+,=-]*$`)

// QuoteEnv quotes an env-file value when it contains characters a dotenv
// parser would otherwise split or strip.
func QuoteEnv(s string) string {
	if plainEnvValue.MatchString(s) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
