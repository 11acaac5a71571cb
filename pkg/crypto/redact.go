// pkg/crypto/redact.go

package crypto

import "strings"

// Redact masks a secret for logging: one asterisk per rune.
func Redact(s string) string {
	if s == "" {
		return "(empty)"
	}
	return strings.Repeat("*", len([]rune(s)))
}
