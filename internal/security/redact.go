package security

import "strings"

var sensitiveSubstrings = []string{
	"token",
	"password",
	"passwd",
	"pwd",
	"secret",
	"license",
	"apikey",
	"api_key",
	"access_key",
	"private_key",
	"credential",
	"auth",
}

// RedactEnv returns a copy of env with sensitive values replaced, for logging
// the environment handed to LAStools processes and startup hooks.
func RedactEnv(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	redacted := make(map[string]string, len(env))
	for key, value := range env {
		if IsSensitiveKey(key) {
			redacted[key] = "***"
			continue
		}
		redacted[key] = value
	}
	return redacted
}

// IsSensitiveKey reports whether an environment variable name looks like it
// carries a credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
