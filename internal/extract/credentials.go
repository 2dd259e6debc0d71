package extract

import (
	"bufio"
	"os"
	"strings"
)

// apiKeyEnvVar is the primary credential source.
const apiKeyEnvVar = "GEMINI_API_KEY"

// dotEnvFile provides a local fallback default for the API key without
// overriding an already-set environment variable.
const dotEnvFile = ".env"

// keyResolver yields an API key, or "" when its source has nothing.
type keyResolver func() string

// ResolveAPIKey walks the credential sources in priority order and returns
// the first non-empty key: the explicit value (typically a flag), the
// GEMINI_API_KEY environment variable, then a GEMINI_API_KEY entry in a
// local .env file. Exhausting all sources is ErrCredentialMissing.
func ResolveAPIKey(explicit string) (string, error) {
	resolvers := []keyResolver{
		func() string { return strings.TrimSpace(explicit) },
		func() string { return strings.TrimSpace(os.Getenv(apiKeyEnvVar)) },
		func() string { return dotEnvValue(dotEnvFile, apiKeyEnvVar) },
	}

	for _, resolve := range resolvers {
		if key := resolve(); key != "" {
			return key, nil
		}
	}
	return "", ErrCredentialMissing
}

// dotEnvValue returns the value of a NAME=value line in path, or "" when the
// file or the entry is absent.
func dotEnvValue(path, name string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, name+"=") {
			return strings.TrimSpace(strings.TrimPrefix(line, name+"="))
		}
	}
	return ""
}
