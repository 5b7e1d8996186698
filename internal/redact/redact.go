// Package redact masks secret material (tokens, passwords, MFA codes,
// personal identifiers) before it reaches any log sink or API response.
// All functions are pure transformations; the logging layer calls them
// before writing.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	fullMask      = "[REDACTED]"
	mfaMask       = "******"
	shortNameMask = "***"
)

// Patterns are applied by Sanitize in this exact order. Token masking must
// run before email masking so a token embedded near an '@' is not
// mis-detected as an email local part.
var (
	mfaCodeRe = regexp.MustCompile(`\b\d{6}\b`)

	passwordKVRe = regexp.MustCompile(`(?i)\b(password|passwd|pwd|senha)\b("?\s*[:=]\s*)("[^"]*"|'[^']*'|[^\s,;}]+)`)

	tokenKVRe = regexp.MustCompile(`(?i)\b(token|access_token|session_token|bearer)\b("?\s*[:=]\s*)("[^"]*"|'[^']*'|[^\s,;}]+)`)

	// bare token-like value: a long unbroken run of token charset
	bareTokenRe = regexp.MustCompile(`\b[A-Za-z0-9_\-]{20,}\b`)

	emailRe = regexp.MustCompile(`\b([A-Za-z0-9._%+-]+)@([A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`)

	cardRe = regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{1,4}\b`)

	cpfRe     = regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b`)
	bareCPFRe = regexp.MustCompile(`\b\d{11}\b`)
)

var secretKeyIndicators = []string{"password", "senha", "token", "mfa", "secret", "key"}

// Sanitize makes a log line safe to store or transmit. It is idempotent:
// applying it twice yields the same output as applying it once.
func Sanitize(message string) string {
	out := mfaCodeRe.ReplaceAllString(message, mfaMask)

	out = passwordKVRe.ReplaceAllStringFunc(out, func(match string) string {
		return replaceKVValue(passwordKVRe, match, func(string) string { return fullMask })
	})

	out = tokenKVRe.ReplaceAllStringFunc(out, func(match string) string {
		return replaceKVValue(tokenKVRe, match, MaskToken)
	})

	out = bareTokenRe.ReplaceAllStringFunc(out, MaskToken)

	out = emailRe.ReplaceAllStringFunc(out, maskEmail)

	out = cardRe.ReplaceAllStringFunc(out, maskCardNumber)

	out = cpfRe.ReplaceAllString(out, "***.***.***-**")
	out = bareCPFRe.ReplaceAllString(out, "***********")

	return out
}

// replaceKVValue keeps the key and separator of a key/value match and runs
// only the value through mask, preserving surrounding quotes.
func replaceKVValue(re *regexp.Regexp, match string, mask func(string) string) string {
	parts := re.FindStringSubmatch(match)
	key, sep, value := parts[1], parts[2], parts[3]

	quote := ""
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') {
		quote = string(value[0])
		value = value[1 : len(value)-1]
	}

	masked := value
	if value != "" && value != fullMask && !isMaskedToken(value) {
		masked = mask(value)
	}
	return key + sep + quote + masked + quote
}

// MaskUsername hides the interior of a login name. It never reveals more
// than the first two and last two characters.
func MaskUsername(name string) string {
	runes := []rune(name)
	switch {
	case len(runes) <= 2:
		return shortNameMask
	case len(runes) <= 4:
		return string(runes[0]) + shortNameMask
	default:
		return string(runes[:2]) + shortNameMask + string(runes[len(runes)-2:])
	}
}

// MaskToken hides the interior of a token value. Values of eight characters
// or fewer are fully masked; longer values keep a four character prefix and
// suffix.
func MaskToken(value string) string {
	if isMaskedToken(value) {
		return value
	}
	runes := []rune(value)
	if len(runes) <= 8 {
		return "********"
	}
	return string(runes[:4]) + "****" + string(runes[len(runes)-4:])
}

func isMaskedToken(value string) bool {
	return value == "********" || strings.Contains(value, "****")
}

func maskEmail(match string) string {
	parts := emailRe.FindStringSubmatch(match)
	local, domain := parts[1], parts[2]
	if len(local) <= 4 {
		return local + "@" + domain
	}
	return local[:2] + "***" + local[len(local)-2:] + "@" + domain
}

func maskCardNumber(match string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, match)
	if len(digits) < 13 {
		// too short to be a card number, leave it alone
		return match
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

// MaskStructured recursively walks maps and sequences. Values under
// secret-indicating keys are fully replaced, string leaves are sanitized,
// and everything else is stringified as-is.
func MaskStructured(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			if isSecretKey(k) {
				out[k] = fullMask
				continue
			}
			out[k] = MaskStructured(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = MaskStructured(inner)
		}
		return out
	case string:
		return Sanitize(v)
	case nil:
		return nil
	default:
		return fmt.Sprint(v)
	}
}

func isSecretKey(key string) bool {
	lower := strings.ToLower(key)
	for _, indicator := range secretKeyIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
