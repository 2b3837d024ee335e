// Package security masks sensitive values before they reach logs.
package security

import "strings"

var sensitiveSubstrings = []string{
	"token",
	"password",
	"authorization",
	"api_key",
	"apikey",
	"secret",
	"key",
	"credential",
	"cookie",
	"session",
	"bearer",
}

// piiKeys are masked partially so logs stay useful for support.
var piiKeys = map[string]struct{}{
	"email": {},
}

// RedactArguments returns a copy of arguments with sensitive values replaced.
func RedactArguments(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	redacted := make(map[string]any, len(values))
	for key, value := range values {
		lower := strings.ToLower(strings.TrimSpace(key))
		switch {
		case isSensitiveKey(lower):
			redacted[key] = "***"
		case isPII(lower):
			s, ok := value.(string)
			if !ok {
				redacted[key] = "***"
				continue
			}
			redacted[key] = MaskEmail(s)
		default:
			redacted[key] = value
		}
	}
	return redacted
}

func isSensitiveKey(lower string) bool {
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

func isPII(lower string) bool {
	_, ok := piiKeys[lower]
	return ok
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// MaskKey keeps the key prefix (sk_live, rk_test, ...) and the last four characters.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) <= 8 {
		return "***"
	}
	prefix := ""
	if i := strings.LastIndexByte(key[:len(key)-4], '_'); i > 0 {
		prefix = key[:i+1]
	}
	return prefix + "***" + key[len(key)-4:]
}
