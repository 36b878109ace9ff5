package logger

import (
	"log/slog"
	"strings"
)

// Authorization schemes whose credential part is partially masked.
var credentialSchemes = []string{
	"Bearer ",
	"Basic ",
}

// Attribute keys that are always fully redacted when non-empty.
var sensitiveKeyPatterns = []string{
	"authorization",
	"cookie",
	"password",
	"secret",
	"token",
	"api_key",
	"api-key",
	"apikey",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		// Scheme-prefixed values keep the scheme and a hint of the credential.
		for _, scheme := range credentialSchemes {
			if len(v) > len(scheme) && strings.EqualFold(v[:len(scheme)], scheme) {
				return slog.String(a.Key, maskValue(v, v[:len(scheme)]))
			}
		}
		if v != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}

	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	return a
}

// maskValue keeps prefix plus the first and last 3 characters of the rest.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
